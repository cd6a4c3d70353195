package b3

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/date"
)

// Columns of the Inventário sheet written by the render package. The
// "Situação em YYYY" column name carries the fiscal year and is located by
// prefix.
const (
	colName        = "Nome"
	colInvType     = "Tipo"
	colInvCNPJ     = "CNPJ"
	colInvMaturity = "Data de Vencimento"
	colDeclaredIn  = "Situação em "
)

// Inventory parses the Inventário sheet of a report generated by this tool
// for a previous fiscal year. It returns the carried positions and the year
// their declared amounts refer to.
func (w *Workbook) Inventory() ([]irpf.Position, int, error) {
	if !w.Has(SheetInventory) {
		return nil, 0, fmt.Errorf("%w: %q has no %q sheet", ErrMalformedSheet, w.path, SheetInventory)
	}
	s, err := w.sheet(SheetInventory, colName, colBroker, colInvType, colInvCNPJ, colTicker, colInvMaturity, colIssuer, colQuantity)
	if err != nil {
		return nil, 0, err
	}

	amountColumn, year, err := s.declaredColumn()
	if err != nil {
		return nil, 0, err
	}

	var positions []irpf.Position
	for i, row := range s.rows {
		if s.get(row, colName) == "" {
			break
		}
		kind, err := irpf.ParseAssetKind(s.get(row, colInvType))
		if err != nil {
			return nil, 0, s.malformed(i, colInvType, err)
		}
		var maturity date.Date
		if cell := s.get(row, colInvMaturity); cell != "" {
			if maturity, err = date.Parse(cell); err != nil {
				return nil, 0, s.malformed(i, colInvMaturity, err)
			}
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return nil, 0, err
		}
		amount, err := s.money(row, i, amountColumn)
		if err != nil {
			return nil, 0, err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:     kind,
				Name:     s.get(row, colName),
				Broker:   s.get(row, colBroker),
				Ticker:   s.get(row, colTicker),
				CNPJ:     cnpjDigits(s.get(row, colInvCNPJ)),
				Issuer:   s.get(row, colIssuer),
				Maturity: maturity,
			},
			Quantity: q,
			Amount:   amount,
		})
	}
	return positions, year, nil
}

// declaredColumn locates the "Situação em YYYY" column and extracts its year.
func (s *sheet) declaredColumn() (string, int, error) {
	for header := range s.columns {
		if !strings.HasPrefix(header, colDeclaredIn) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimPrefix(header, colDeclaredIn))
		if err != nil {
			return "", 0, fmt.Errorf("%w: sheet %q column %q does not name a year",
				ErrMalformedSheet, s.name, header)
		}
		return header, year, nil
	}
	return "", 0, fmt.Errorf("%w: sheet %q is missing required column(s): %s<year>",
		ErrMalformedSheet, s.name, colDeclaredIn)
}
