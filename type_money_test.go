package irpf

import "testing"

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in   string
		want Money
	}{
		{"1234.56", BRL(1234.56)},
		{"R$ 1.234,56", BRL(1234.56)},
		{"R$ 1,234.56", BRL(1234.56)},
		{"R$1234,5", BRL(1234.5)},
		{" 0,01 ", BRL(0.01)},
		{"-10,00", BRL(-10)},
	}
	for _, tc := range testCases {
		got, err := ParseMoney(tc.in)
		if err != nil {
			t.Errorf("ParseMoney(%q) failed: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseMoney(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseMoney("R$ dez"); err == nil {
		t.Error("ParseMoney(\"R$ dez\") succeeded, want error")
	}
}

func TestParseQuantity(t *testing.T) {
	testCases := []struct {
		in   string
		want Quantity
	}{
		{"100", Q(100)},
		{"1.234", Q(1.234)}, // lone dot reads as a decimal point
		{"1.234,5", Q(1234.5)},
		{"0,01", Q(0.01)},
	}
	for _, tc := range testCases {
		got, err := ParseQuantity(tc.in)
		if err != nil {
			t.Errorf("ParseQuantity(%q) failed: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseQuantity(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := BRL(10).Mul(Q(3)); !got.Equal(BRL(30)) {
		t.Errorf("BRL(10).Mul(Q(3)) = %s, want R$ 30", got)
	}
	if got := BRL(1000).Div(Q(3)).Mul(Q(3)); !got.Equal(BRL(1000)) {
		t.Errorf("Div then Mul by 3 = %s, want the exact R$ 1000 back", got)
	}
	if got := BRL(5).Sub(BRL(8)); !got.IsNegative() {
		t.Errorf("BRL(5).Sub(BRL(8)) = %s, want a negative value", got)
	}
}

func TestMoneySignedString(t *testing.T) {
	if got := BRL(0).SignedString(); got != "-" {
		t.Errorf("BRL(0).SignedString() = %q, want \"-\"", got)
	}
	if got := BRL(1).SignedString(); got[0] != '+' {
		t.Errorf("BRL(1).SignedString() = %q, want a leading +", got)
	}
}
