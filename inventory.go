package irpf

import (
	"errors"
	"fmt"
	"sort"

	"github.com/b3tax/irpf/date"
	"github.com/rs/zerolog/log"
)

// ErrNegativeQuantity is returned when a sell would push the held quantity
// of an asset below zero. Short positions do not exist in a holdings report,
// so this always means the input is incomplete or malformed.
var ErrNegativeQuantity = errors.New("disposal exceeds held quantity")

// Investment is the aggregate of everything known about one asset: the
// opening (prior-year) position, the closing (current) position, and the
// trades in between. It is what one row of the declaration is built from.
type Investment struct {
	Asset           Asset
	OpeningQuantity Quantity
	OpeningAmount   Money
	ClosingQuantity Quantity
	ClosingAmount   Money
	RealizedGain    Money
	LastSell        date.Date
	Transactions    []Transaction

	// cost basis accumulation: quantity held and its total acquisition
	// cost, folded from the opening position and the trades in date order.
	heldQuantity   Quantity
	costBasis      Money
	tradedQuantity Quantity // net traded balance, buys minus sells
	amountFromRows bool     // closing amount came from the position sheet (treasury)
	finalized      bool
}

// AverageCost is the weighted-average acquisition price of the held quantity.
func (v *Investment) AverageCost() Money {
	if v.heldQuantity.IsZero() {
		return Money{}
	}
	return v.costBasis.Div(v.heldQuantity)
}

// Closed reports whether the position no longer exists at year end.
func (v *Investment) Closed() bool { return v.ClosingQuantity.IsZero() }

// RepeatAmount reports whether the declared amount is unchanged from the
// previous year, so the declarant can just repeat the field.
func (v *Investment) RepeatAmount() bool {
	return !v.Closed() &&
		v.OpeningQuantity.Equal(v.ClosingQuantity) &&
		v.OpeningAmount.Equal(v.ClosingAmount)
}

// MissingTransactions reports whether the trades report does not account for
// the change in quantity of a listed asset. Splits, reverse splits and stock
// bonuses happen outside the Negociação sheet and show up this way.
func (v *Investment) MissingTransactions() bool {
	if !v.Asset.Kind.Listed() {
		return false
	}
	return !v.OpeningQuantity.Add(v.tradedQuantity).Equal(v.ClosingQuantity)
}

// PriorAmountUnavailable reports whether there was a prior-year position but
// its declared amount is unknown, so the declarant must look up the last
// declaration by hand.
func (v *Investment) PriorAmountUnavailable() bool {
	return v.OpeningQuantity.IsPositive() && v.OpeningAmount.IsZero()
}

// Description is the declaration description for this investment, including
// the closing note when the position was sold off during the year.
func (v *Investment) Description(year int) string {
	desc := v.Asset.Description(v.ClosingQuantity)
	if v.Closed() && !v.LastSell.IsZero() && !v.Asset.Matured(year) {
		wording := "lucro"
		if v.RealizedGain.IsNegative() {
			wording = "prejuízo"
		}
		desc += fmt.Sprintf(" - Posição encerrada em %s com %s de %s", v.LastSell.BR(), wording, v.RealizedGain.Abs())
	}
	return desc
}

func (v *Investment) addOpening(p Position) {
	v.OpeningQuantity = v.OpeningQuantity.Add(p.Quantity)
	v.OpeningAmount = v.OpeningAmount.Add(p.Amount)
	// The prior-year position is the opening lot of the cost basis.
	v.heldQuantity = v.heldQuantity.Add(p.Quantity)
	v.costBasis = v.costBasis.Add(p.Amount)
}

func (v *Investment) addCurrent(p Position) {
	v.ClosingQuantity = v.ClosingQuantity.Add(p.Quantity)
	if !p.Amount.IsZero() {
		v.ClosingAmount = v.ClosingAmount.Add(p.Amount)
		v.amountFromRows = true
	}
}

// apply folds one trade into the running weighted-average cost basis.
// On a buy the average moves towards the trade price; on a sell the average
// is untouched and the difference is realized.
func (v *Investment) apply(tx Transaction) error {
	switch tx.Operation {
	case Buy:
		v.heldQuantity = v.heldQuantity.Add(tx.Quantity)
		v.costBasis = v.costBasis.Add(tx.Amount)
		v.tradedQuantity = v.tradedQuantity.Add(tx.Quantity)
	case Sell:
		if tx.Quantity.GreaterThan(v.heldQuantity) {
			return fmt.Errorf("%w: selling %s of %s on %s with only %s held",
				ErrNegativeQuantity, tx.Quantity, tx.Ticker, tx.Date, v.heldQuantity)
		}
		avg := v.AverageCost()
		v.RealizedGain = v.RealizedGain.Add(tx.Price.Sub(avg).Mul(tx.Quantity))
		v.costBasis = v.costBasis.Sub(avg.Mul(tx.Quantity))
		v.heldQuantity = v.heldQuantity.Sub(tx.Quantity)
		v.tradedQuantity = v.tradedQuantity.Sub(tx.Quantity)
		if tx.Date.After(v.LastSell) {
			v.LastSell = tx.Date
		}
	}
	v.Transactions = append(v.Transactions, tx)
	return nil
}

// finalize settles the closing amount once all rows and trades are folded.
func (v *Investment) finalize() {
	if v.finalized {
		return
	}
	v.finalized = true
	if v.Closed() {
		// A closed position declares zero regardless of history.
		v.ClosingAmount = Money{}
		return
	}
	if v.Asset.Kind.Listed() {
		// Listed assets declare their cost basis.
		v.ClosingAmount = v.costBasis
		return
	}
	if !v.amountFromRows && v.ClosingQuantity.Equal(v.OpeningQuantity) {
		// Fixed income without an amount column carries last year's value.
		v.ClosingAmount = v.OpeningAmount
	}
}

// Inventory groups positions and trades by asset and produces the final
// investment aggregates. Feed it opening positions first, then current
// positions, then transactions.
type Inventory struct {
	investments map[string]*Investment
}

func NewInventory() *Inventory {
	return &Inventory{investments: make(map[string]*Investment)}
}

func (inv *Inventory) upsert(asset Asset) *Investment {
	v, ok := inv.investments[asset.Key()]
	if !ok {
		v = &Investment{Asset: asset}
		inv.investments[asset.Key()] = v
		return v
	}
	// A later sheet may know the CNPJ when an earlier one did not.
	if v.Asset.CNPJ == "" && asset.CNPJ != "" {
		v.Asset.CNPJ = asset.CNPJ
	}
	return v
}

// AddOpeningPositions folds prior-year positions, seeding opening quantity,
// declared amount and the cost basis.
func (inv *Inventory) AddOpeningPositions(positions []Position) {
	for _, p := range positions {
		inv.upsert(p.Asset).addOpening(p)
	}
}

// AddPositions folds current-year position rows.
func (inv *Inventory) AddPositions(positions []Position) {
	for _, p := range positions {
		inv.upsert(p.Asset).addCurrent(p)
	}
}

// AddTransactions folds the trades report, in date order. Trades for tickers
// with no known position are logged and skipped: they usually belong to
// day-trade activity that never shows up in a holdings report.
func (inv *Inventory) AddTransactions(transactions []Transaction) error {
	txs := make([]Transaction, len(transactions))
	copy(txs, transactions)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	for _, tx := range txs {
		v, ok := inv.investments[tx.Ticker]
		if !ok {
			log.Warn().Str("ticker", tx.Ticker).Msg("no position found for traded ticker, skipping its trades")
			continue
		}
		if err := v.apply(tx); err != nil {
			return err
		}
	}
	return nil
}

// Investments finalizes and returns the aggregates, ordered the way the
// declaration form lists them: by group, code, then asset key.
func (inv *Inventory) Investments() []*Investment {
	list := make([]*Investment, 0, len(inv.investments))
	for _, v := range inv.investments {
		v.finalize()
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Asset, list[j].Asset
		if a.Kind.Group() != b.Kind.Group() {
			return a.Kind.Group() < b.Kind.Group()
		}
		if a.Kind.Code() != b.Kind.Code() {
			return a.Kind.Code() < b.Kind.Code()
		}
		return a.Key() < b.Key()
	})
	return list
}
