package render_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/b3"
	"github.com/b3tax/irpf/date"
	"github.com/b3tax/irpf/render"
)

// declaration builds a small inventory with one carried stock, one fixed
// income title and one closed position.
func declaration(t *testing.T) []*irpf.Investment {
	t.Helper()

	stock := irpf.Asset{Kind: irpf.ON, Name: "PETR3 - PETROLEO BRASILEIRO S.A.", Broker: "CORRETORA XP", Ticker: "PETR3", CNPJ: "33000167000101"}
	title := irpf.Asset{Kind: irpf.CDB, Name: "CDB - BANCO EXEMPLO", Broker: "CORRETORA XP", Issuer: "BANCO EXEMPLO", Maturity: date.New(2030, time.August, 1)}
	closed := irpf.Asset{Kind: irpf.FII, Name: "HGLG11 - CSHG LOGISTICA", Broker: "CORRETORA XP", Ticker: "HGLG11", CNPJ: "26386173000158"}

	inv := irpf.NewInventory()
	inv.AddOpeningPositions([]irpf.Position{
		{Asset: stock, Quantity: irpf.Q(100), Amount: irpf.BRL(1000)},
		{Asset: title, Quantity: irpf.Q(2), Amount: irpf.BRL(5000)},
		{Asset: closed, Quantity: irpf.Q(30), Amount: irpf.BRL(3000)},
	})
	inv.AddPositions([]irpf.Position{
		{Asset: stock, Quantity: irpf.Q(100)},
		{Asset: title, Quantity: irpf.Q(2)},
	})
	if err := inv.AddTransactions([]irpf.Transaction{{
		Date:      date.New(2025, time.April, 7),
		Operation: irpf.Sell,
		Ticker:    "HGLG11",
		Quantity:  irpf.Q(30),
		Price:     irpf.BRL(110),
		Amount:    irpf.BRL(3300),
	}}); err != nil {
		t.Fatalf("AddTransactions() failed: %v", err)
	}
	return inv.Investments()
}

// The Inventário sheet of a written report must read back as the opening
// positions of next year's run.
func TestWriteReport_CarryForwardRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irpf-2025.xlsx")
	if err := render.WriteReport(path, 2025, declaration(t)); err != nil {
		t.Fatalf("WriteReport() failed: %v", err)
	}

	wb, err := b3.Open(path)
	if err != nil {
		t.Fatalf("Open() failed on the written report: %v", err)
	}
	defer wb.Close()

	positions, year, err := wb.Inventory()
	if err != nil {
		t.Fatalf("Inventory() failed on the written report: %v", err)
	}
	if year != 2025 {
		t.Errorf("Inventory() year = %d, want 2025", year)
	}
	if len(positions) != 2 {
		t.Fatalf("Inventory() returned %d rows, want 2 (closed positions are not carried)", len(positions))
	}

	byKey := map[string]irpf.Position{}
	for _, p := range positions {
		byKey[p.Asset.Key()] = p
	}

	stock, ok := byKey["PETR3"]
	if !ok {
		t.Fatal("carried positions are missing PETR3")
	}
	if !stock.Quantity.Equal(irpf.Q(100)) || !stock.Amount.Equal(irpf.BRL(1000)) {
		t.Errorf("PETR3 carried as %s / %s, want 100 / R$ 1000", stock.Quantity, stock.Amount)
	}
	if stock.Asset.CNPJ != "33000167000101" {
		t.Errorf("PETR3 CNPJ carried as %q, want the 14 digits back", stock.Asset.CNPJ)
	}

	title, ok := byKey["CDB - BANCO EXEMPLO - CORRETORA XP"]
	if !ok {
		t.Fatal("carried positions are missing the CDB")
	}
	if !title.Amount.Equal(irpf.BRL(5000)) {
		t.Errorf("CDB carried as %s, want R$ 5000", title.Amount)
	}
	if title.Asset.Maturity.BR() != "01/08/2030" {
		t.Errorf("CDB maturity carried as %s, want 01/08/2030", title.Asset.Maturity)
	}
}

func TestWriteReport_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irpf-2025.xlsx")
	if err := render.WriteReport(path, 2025, declaration(t)); err != nil {
		t.Fatalf("WriteReport() failed: %v", err)
	}

	wb, err := b3.Open(path)
	if err != nil {
		t.Fatalf("Open() failed on the written report: %v", err)
	}
	defer wb.Close()

	for _, name := range []string{"Bens e Direitos", "Inventário"} {
		if !wb.Has(name) {
			t.Errorf("report has no %q sheet, sheets = %v", name, wb.Sheets())
		}
	}
	if wb.Has("Sheet1") {
		t.Error("report still carries the default Sheet1")
	}
}
