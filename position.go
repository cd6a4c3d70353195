package irpf

import (
	"fmt"
	"strings"

	"github.com/b3tax/irpf/date"
)

// Operation is the direction of a trade in the B3 trades report.
type Operation int

const (
	Buy Operation = iota
	Sell
)

func (o Operation) String() string {
	switch o {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseOperation parses the "Tipo de Movimentação" cell ("Compra"/"Venda").
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compra":
		return Buy, nil
	case "venda":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", s)
	}
}

// Position is one normalized row from a position sheet: an asset and how
// much of it is held. Amount is only set when the sheet carries it (treasury
// bonds and prior-year inventory rows); zero otherwise.
type Position struct {
	Asset    Asset
	Quantity Quantity
	Amount   Money
}

// Transaction is one trade from the Negociação sheet.
type Transaction struct {
	Date      date.Date
	Operation Operation
	Broker    string
	Ticker    string
	Quantity  Quantity
	Price     Money
	Amount    Money // total traded amount, quantity times price
}
