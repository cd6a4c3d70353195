package b3

import (
	"fmt"
	"strings"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/date"
)

// Columns of the Negociação sheet.
const (
	colTradeDate  = "Data do Negócio"
	colOperation  = "Tipo de Movimentação"
	colPrice      = "Preço"
	colTradeTotal = "Valor"
)

// Transactions parses the Negociação sheet of a B3 trades report.
func (w *Workbook) Transactions() ([]irpf.Transaction, error) {
	if !w.Has(SheetTrades) {
		return nil, fmt.Errorf("%w: %q has no %q sheet", ErrMalformedSheet, w.path, SheetTrades)
	}
	s, err := w.sheet(SheetTrades, colTradeDate, colOperation, colBroker, colTicker, colQuantity, colPrice, colTradeTotal)
	if err != nil {
		return nil, err
	}

	var transactions []irpf.Transaction
	for i, row := range s.rows {
		if s.get(row, colTradeDate) == "" {
			break
		}
		on, err := date.Parse(s.get(row, colTradeDate))
		if err != nil {
			return nil, s.malformed(i, colTradeDate, err)
		}
		op, err := irpf.ParseOperation(s.get(row, colOperation))
		if err != nil {
			return nil, s.malformed(i, colOperation, err)
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return nil, err
		}
		price, err := s.money(row, i, colPrice)
		if err != nil {
			return nil, err
		}
		total, err := s.money(row, i, colTradeTotal)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, irpf.Transaction{
			Date:      on,
			Operation: op,
			Broker:    s.get(row, colBroker),
			Ticker:    normalizeTicker(s.get(row, colTicker)),
			Quantity:  q,
			Price:     price,
			Amount:    total,
		})
	}
	return transactions, nil
}

// normalizeTicker folds fractional-market trades (ticker suffixed with "F")
// into the regular ticker, so they aggregate with the main position.
func normalizeTicker(ticker string) string {
	return strings.TrimSuffix(ticker, "F")
}
