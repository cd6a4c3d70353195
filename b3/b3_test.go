package b3

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/b3tax/irpf"
)

// fixtureSheet is one sheet of a test workbook, header row included.
type fixtureSheet struct {
	name string
	rows [][]interface{}
}

// writeWorkbook saves a workbook with the given sheets, in order, under a
// temporary directory and returns its path.
func writeWorkbook(t *testing.T, sheets ...fixtureSheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	for n, sh := range sheets {
		if n == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				t.Fatalf("SetSheetName(%q) failed: %v", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			t.Fatalf("NewSheet(%q) failed: %v", sh.name, err)
		}
		for r := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName failed: %v", err)
			}
			if err := f.SetSheetRow(sh.name, cell, &sh.rows[r]); err != nil {
				t.Fatalf("SetSheetRow(%q) failed: %v", sh.name, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs(%q) failed: %v", path, err)
	}
	return path
}

// open opens a fixture workbook and closes it when the test ends.
func open(t *testing.T, path string) *Workbook {
	t.Helper()
	wb, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q) failed: %v", path, err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

// fakeClassifier resolves ambiguous tickers from a fixed table.
type fakeClassifier map[string]irpf.AssetKind

func (c fakeClassifier) Classify(ticker string) (irpf.AssetKind, error) {
	if kind, ok := c[ticker]; ok {
		return kind, nil
	}
	return irpf.KindUnrecognized, errors.New("ticker not in table")
}

func TestOpen_NotAWorkbook(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.xlsx")); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("Open() error = %v, want ErrUnreadable", err)
	}
}

func TestPositions_Stocks(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetStocks, [][]interface{}{
		{"Produto", "Instituição", "Código de Negociação", "Tipo", "CNPJ da Empresa", "Quantidade"},
		{"PETR3 - PETROLEO BRASILEIRO S.A.", "CORRETORA XP", "PETR3", "ON", "33.000.167/0001-01", 100},
		{"ITSA4 - ITAUSA S.A.", "CORRETORA XP", "ITSA4", "PN", "61532644000115", 50},
		{"", "relatório gerado pela B3"},
		{"IGNORED - AFTER BLANK", "CORRETORA XP", "IGNO3", "ON", "", 999},
	}})

	positions, err := open(t, path).Positions(nil)
	if err != nil {
		t.Fatalf("Positions() failed: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("Positions() returned %d rows, want 2 (parsing stops at the first blank product)", len(positions))
	}

	p := positions[0]
	if p.Asset.Kind != irpf.ON || p.Asset.Ticker != "PETR3" {
		t.Errorf("positions[0] = %s %s, want ON PETR3", p.Asset.Kind, p.Asset.Ticker)
	}
	if p.Asset.CNPJ != "33000167000101" {
		t.Errorf("positions[0].CNPJ = %q, want the bare 14 digits", p.Asset.CNPJ)
	}
	if !p.Quantity.Equal(irpf.Q(100)) {
		t.Errorf("positions[0].Quantity = %s, want 100", p.Quantity)
	}
	if positions[1].Asset.Kind != irpf.PN {
		t.Errorf("positions[1].Kind = %s, want PN", positions[1].Asset.Kind)
	}
}

func TestPositions_MissingColumnFails(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetStocks, [][]interface{}{
		{"Produto", "Instituição", "Código de Negociação", "Quantidade"}, // no Tipo, no CNPJ
		{"PETR3 - PETROLEO BRASILEIRO S.A.", "CORRETORA XP", "PETR3", 100},
	}})

	positions, err := open(t, path).Positions(nil)
	if !errors.Is(err, ErrMalformedSheet) {
		t.Fatalf("Positions() error = %v, want ErrMalformedSheet", err)
	}
	if positions != nil {
		t.Errorf("Positions() = %v, want nil on error", positions)
	}
}

func TestPositions_UnrecognizedSheetsAreSkipped(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{"Proventos", [][]interface{}{
		{"Produto", "Valor líquido"},
		{"PETR3 - PETROLEO BRASILEIRO S.A.", "R$ 12,34"},
	}})

	positions, err := open(t, path).Positions(nil)
	if err != nil {
		t.Fatalf("Positions() failed: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("Positions() returned %d rows from an unrecognized sheet, want 0", len(positions))
	}
}

func TestPositions_Funds(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetFunds, [][]interface{}{
		{"Produto", "Instituição", "Código de Negociação", "Tipo", "CNPJ do Fundo", "Quantidade"},
		{"HGLG11 - CSHG LOGISTICA", "CORRETORA XP", "HGLG11", "Cotas", "26.386.173/0001-58", 30},
		{"HGLG12 - CSHG LOGISTICA", "CORRETORA XP", "HGLG12", "Recibo", "26.386.173/0001-58", 5},
		{"FIDC EXEMPLO", "CORRETORA XP", "FIDC11", "Fundo", "11.222.333/0001-44", 10},
	}})

	positions, err := open(t, path).Positions(nil)
	if err != nil {
		t.Fatalf("Positions() failed: %v", err)
	}
	want := []irpf.AssetKind{irpf.FII, irpf.FIIReceipt, irpf.FIDC}
	if len(positions) != len(want) {
		t.Fatalf("Positions() returned %d rows, want %d", len(positions), len(want))
	}
	for i, kind := range want {
		if positions[i].Asset.Kind != kind {
			t.Errorf("positions[%d].Kind = %s, want %s", i, positions[i].Asset.Kind, kind)
		}
	}
}

func TestPositions_FixedIncome(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetFixedIncome, [][]interface{}{
		{"Produto", "Instituição", "Emissor", "Vencimento", "Quantidade"},
		{"CDB - BANCO EXEMPLO - AGO/2030", "CORRETORA XP", "Banco Exemplo", "01/08/2030", 2},
		{"LCI - BANCO EXEMPLO", "CORRETORA XP", "Banco Exemplo", "15/03/2027", 1},
		{"LCA - BANCO EXEMPLO", "CORRETORA XP", "Banco Exemplo", "15/03/2027", 1},
	}})

	positions, err := open(t, path).Positions(nil)
	if err != nil {
		t.Fatalf("Positions() failed: %v", err)
	}
	if len(positions) != 3 {
		t.Fatalf("Positions() returned %d rows, want 3", len(positions))
	}
	want := []irpf.AssetKind{irpf.CDB, irpf.LCI, irpf.LCA}
	for i, kind := range want {
		if positions[i].Asset.Kind != kind {
			t.Errorf("positions[%d].Kind = %s, want %s", i, positions[i].Asset.Kind, kind)
		}
	}
	if got := positions[0].Asset.Issuer; got != "BANCO EXEMPLO" {
		t.Errorf("Issuer = %q, want it uppercased", got)
	}
	if got := positions[0].Asset.Maturity.BR(); got != "01/08/2030" {
		t.Errorf("Maturity = %s, want 01/08/2030", got)
	}
}

func TestPositions_Treasury(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetTreasury, [][]interface{}{
		{"Produto", "Instituição", "Vencimento", "Quantidade", "Valor Aplicado"},
		{"Tesouro Selic 2029", "CORRETORA XP", "01/03/2029", "1,5", "R$ 15.000,00"},
	}})

	positions, err := open(t, path).Positions(nil)
	if err != nil {
		t.Fatalf("Positions() failed: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("Positions() returned %d rows, want 1", len(positions))
	}
	p := positions[0]
	if !p.Quantity.Equal(irpf.Q(1.5)) {
		t.Errorf("Quantity = %s, want the fractional 1.5", p.Quantity)
	}
	if !p.Amount.Equal(irpf.BRL(15000)) {
		t.Errorf("Amount = %s, want R$ 15000", p.Amount)
	}
}

func TestPositions_Loans(t *testing.T) {
	sheet := fixtureSheet{SheetLoans, [][]interface{}{
		{"Produto", "Instituição", "Quantidade"},
		{"PETR3 - PETROLEO BRASILEIRO S.A.", "CORRETORA XP", 10},
		{"AAPL34 - APPLE INC", "CORRETORA XP", 5},
		{"HGLG11 - CSHG LOGISTICA", "CORRETORA XP", 3},
	}}

	positions, err := open(t, writeWorkbook(t, sheet)).Positions(fakeClassifier{"HGLG11": irpf.FII})
	if err != nil {
		t.Fatalf("Positions() failed: %v", err)
	}
	want := []irpf.AssetKind{irpf.ON, irpf.BDR, irpf.FII}
	for i, kind := range want {
		if positions[i].Asset.Kind != kind {
			t.Errorf("positions[%d].Kind = %s, want %s", i, positions[i].Asset.Kind, kind)
		}
	}

	// An ambiguous 11 suffix cannot be resolved without a classifier.
	if _, err := open(t, writeWorkbook(t, sheet)).Positions(nil); !errors.Is(err, ErrMalformedSheet) {
		t.Errorf("Positions(nil) error = %v, want ErrMalformedSheet", err)
	}
}

func TestTransactions(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetTrades, [][]interface{}{
		{"Data do Negócio", "Tipo de Movimentação", "Instituição", "Código de Negociação", "Quantidade", "Preço", "Valor"},
		{"10/01/2025", "Compra", "CORRETORA XP", "PETR3", 100, "R$ 10,00", "R$ 1.000,00"},
		{"05/03/2025", "Venda", "CORRETORA XP", "PETR3F", 40, "R$ 15,00", "R$ 600,00"},
	}})

	transactions, err := open(t, path).Transactions()
	if err != nil {
		t.Fatalf("Transactions() failed: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("Transactions() returned %d rows, want 2", len(transactions))
	}

	tx := transactions[0]
	if tx.Operation != irpf.Buy || tx.Date.String() != "2025-01-10" {
		t.Errorf("transactions[0] = %v on %s, want a buy on 2025-01-10", tx.Operation, tx.Date)
	}
	if !tx.Amount.Equal(irpf.BRL(1000)) {
		t.Errorf("transactions[0].Amount = %s, want R$ 1000", tx.Amount)
	}
	// Fractional-market trades fold into the regular ticker.
	if got := transactions[1].Ticker; got != "PETR3" {
		t.Errorf("transactions[1].Ticker = %q, want the F suffix stripped", got)
	}
}

func TestTransactions_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetStocks, [][]interface{}{
		{"Produto", "Instituição", "Código de Negociação", "Tipo", "CNPJ da Empresa", "Quantidade"},
	}})

	if _, err := open(t, path).Transactions(); !errors.Is(err, ErrMalformedSheet) {
		t.Fatalf("Transactions() error = %v, want ErrMalformedSheet", err)
	}
}

func TestInventory(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetInventory, [][]interface{}{
		{"Nome", "Instituição", "Tipo", "CNPJ", "Código de Negociação", "Data de Vencimento", "Emissor", "Quantidade", "Situação em 2024"},
		{"PETR3 - PETROLEO BRASILEIRO S.A.", "CORRETORA XP", "ON", "33.000.167/0001-01", "PETR3", "", "", 100, "R$ 1.000,00"},
		{"CDB - BANCO EXEMPLO", "CORRETORA XP", "CDB", "", "", "01/08/2030", "BANCO EXEMPLO", 2, "R$ 5.000,00"},
	}})

	positions, year, err := open(t, path).Inventory()
	if err != nil {
		t.Fatalf("Inventory() failed: %v", err)
	}
	if year != 2024 {
		t.Errorf("Inventory() year = %d, want 2024", year)
	}
	if len(positions) != 2 {
		t.Fatalf("Inventory() returned %d rows, want 2", len(positions))
	}
	if !positions[0].Amount.Equal(irpf.BRL(1000)) {
		t.Errorf("positions[0].Amount = %s, want R$ 1000", positions[0].Amount)
	}
	if positions[1].Asset.Kind != irpf.CDB || positions[1].Asset.Maturity.BR() != "01/08/2030" {
		t.Errorf("positions[1] = %s maturing %s, want a CDB maturing 01/08/2030",
			positions[1].Asset.Kind, positions[1].Asset.Maturity)
	}
}

func TestInventory_MissingYearColumn(t *testing.T) {
	path := writeWorkbook(t, fixtureSheet{SheetInventory, [][]interface{}{
		{"Nome", "Instituição", "Tipo", "CNPJ", "Código de Negociação", "Data de Vencimento", "Emissor", "Quantidade"},
	}})

	if _, _, err := open(t, path).Inventory(); !errors.Is(err, ErrMalformedSheet) {
		t.Fatalf("Inventory() error = %v, want ErrMalformedSheet", err)
	}
}
