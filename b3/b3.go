// Package b3 reads the xlsx workbooks the B3 investor area exports: the
// positions report (one sheet per investment category), the trades report
// (Negociação), and the Inventário sheet that a report generated by this
// tool carries for next year's carry-forward.
package b3

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/b3tax/irpf"
)

// ErrUnreadable reports that the workbook file cannot be opened or is not a
// spreadsheet at all.
var ErrUnreadable = errors.New("cannot read workbook")

// ErrMalformedSheet reports that a recognized sheet is missing required
// columns or holds values of an unexpected type.
var ErrMalformedSheet = errors.New("malformed sheet")

// Sheet names as the B3 report generator writes them.
const (
	SheetStocks      = "Acoes"
	SheetBDR         = "BDR"
	SheetLoans       = "Empréstimos"
	SheetETF         = "ETF"
	SheetFunds       = "Fundo de Investimento"
	SheetFixedIncome = "Renda Fixa"
	SheetTreasury    = "Tesouro Direto"
	SheetTrades      = "Negociação"
	SheetInventory   = "Inventário"
)

// Recognized reports whether the sheet name is one this package knows how
// to parse. Anything else in a workbook is skipped with a warning.
func Recognized(name string) bool {
	switch name {
	case SheetStocks, SheetBDR, SheetLoans, SheetETF, SheetFunds,
		SheetFixedIncome, SheetTreasury, SheetTrades, SheetInventory:
		return true
	}
	return false
}

// Classifier resolves a ticker whose asset kind cannot be inferred from its
// suffix alone (tickers ending in 11 can be UNITs, ETFs or FIIs).
type Classifier interface {
	Classify(ticker string) (irpf.AssetKind, error)
}

// Workbook is an open B3 report file. The file handle lives only for the
// parse phase; close it as soon as the sheets are read.
type Workbook struct {
	file *excelize.File
	path string
}

// Open opens a B3 report workbook for reading.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnreadable, path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

// Close releases the underlying file handle.
func (w *Workbook) Close() error { return w.file.Close() }

// Path returns the path the workbook was opened from.
func (w *Workbook) Path() string { return w.path }

// Sheets returns the sheet names present in the workbook, in file order.
func (w *Workbook) Sheets() []string { return w.file.GetSheetList() }

// Has reports whether the workbook contains the named sheet.
func (w *Workbook) Has(name string) bool {
	for _, s := range w.Sheets() {
		if s == name {
			return true
		}
	}
	return false
}

// sheet is one loaded sheet: its data rows and a header index.
type sheet struct {
	name    string
	columns map[string]int
	rows    [][]string // data rows, header excluded
}

// sheet loads the named sheet and validates that all required columns are
// present in its header row.
func (w *Workbook) sheet(name string, required ...string) (*sheet, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnreadable, name, err)
	}
	s := &sheet{name: name, columns: make(map[string]int)}
	if len(rows) > 0 {
		for i, header := range rows[0] {
			s.columns[strings.TrimSpace(header)] = i
		}
		s.rows = rows[1:]
	}

	var missing []string
	for _, column := range required {
		if _, ok := s.columns[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: sheet %q is missing required column(s): %s",
			ErrMalformedSheet, name, strings.Join(missing, ", "))
	}
	return s, nil
}

// get returns the trimmed cell under the named column for a data row.
// excelize trims trailing empty cells per row, hence the bounds check.
func (s *sheet) get(row []string, column string) string {
	i, ok := s.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// malformed wraps a row-level parse failure with its location.
func (s *sheet) malformed(rowIndex int, column string, err error) error {
	return fmt.Errorf("%w: sheet %q row %d column %q: %v",
		ErrMalformedSheet, s.name, rowIndex+2, column, err)
}

func (s *sheet) quantity(row []string, i int, column string) (irpf.Quantity, error) {
	q, err := irpf.ParseQuantity(s.get(row, column))
	if err != nil {
		return irpf.Quantity{}, s.malformed(i, column, err)
	}
	return q, nil
}

func (s *sheet) money(row []string, i int, column string) (irpf.Money, error) {
	m, err := irpf.ParseMoney(s.get(row, column))
	if err != nil {
		return irpf.Money{}, s.malformed(i, column, err)
	}
	return m, nil
}

func warnUnrecognized(sheetName string) {
	log.Warn().Str("sheet", sheetName).Msg("unrecognized sheet, skipping")
}

// cnpjDigits normalizes a CNPJ cell to its 14 digits. Workbooks sometimes
// store the CNPJ as a number, losing the leading zeros.
func cnpjDigits(cell string) string {
	var digits strings.Builder
	for _, r := range cell {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	for len(d) < 14 {
		d = "0" + d
	}
	return d
}
