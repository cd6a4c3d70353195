package irpf

import (
	"time"

	"github.com/b3tax/irpf/date"
)

// stockON is a helper for tests to create an ordinary stock asset.
func stockON(ticker string) Asset {
	return Asset{Kind: ON, Name: ticker + " - COMPANHIA EXEMPLO S.A.", Broker: "CORRETORA XP", Ticker: ticker, CNPJ: "12345678000190"}
}

// cdb is a helper for tests to create a fixed income asset.
func cdb(name, broker string) Asset {
	return Asset{
		Kind:     CDB,
		Name:     name,
		Broker:   broker,
		Issuer:   "BANCO EXEMPLO",
		Maturity: date.New(2030, time.June, 1),
	}
}

// buy is a helper for tests to create a buy trade at qty * price.
func buy(on date.Date, ticker string, quantity int, price float64) Transaction {
	return Transaction{
		Date:      on,
		Operation: Buy,
		Ticker:    ticker,
		Quantity:  Q(quantity),
		Price:     BRL(price),
		Amount:    BRL(price).Mul(Q(quantity)),
	}
}

// sell is a helper for tests to create a sell trade at qty * price.
func sell(on date.Date, ticker string, quantity int, price float64) Transaction {
	return Transaction{
		Date:      on,
		Operation: Sell,
		Ticker:    ticker,
		Quantity:  Q(quantity),
		Price:     BRL(price),
		Amount:    BRL(price).Mul(Q(quantity)),
	}
}
