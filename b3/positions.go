package b3

import (
	"fmt"
	"strings"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/date"
)

// Column names shared by the position sheets.
const (
	colProduct  = "Produto"
	colBroker   = "Instituição"
	colQuantity = "Quantidade"
	colTicker   = "Código de Negociação"
	colType     = "Tipo"
)

// Category-specific columns.
const (
	colCompanyCNPJ = "CNPJ da Empresa"
	colFundCNPJ    = "CNPJ do Fundo"
	colIssuer      = "Emissor"
	colMaturity    = "Vencimento"
	colInvested    = "Valor Aplicado"
)

// Positions parses every recognized position sheet present in the workbook
// into normalized position rows. Sheets that are not part of any B3 report
// are skipped with a warning; a workbook with no recognized sheet at all
// yields an empty list, not an error. The classifier is only consulted for
// stock-loan tickers whose kind is ambiguous; it may be nil.
func (w *Workbook) Positions(classifier Classifier) ([]irpf.Position, error) {
	var positions []irpf.Position
	for _, name := range w.Sheets() {
		var (
			parsed []irpf.Position
			err    error
		)
		switch name {
		case SheetStocks:
			parsed, err = w.readStocks()
		case SheetBDR:
			parsed, err = w.readBDRs()
		case SheetETF:
			parsed, err = w.readETFs()
		case SheetFunds:
			parsed, err = w.readFunds()
		case SheetFixedIncome:
			parsed, err = w.readFixedIncome()
		case SheetTreasury:
			parsed, err = w.readTreasuries()
		case SheetLoans:
			parsed, err = w.readLoans(classifier)
		case SheetTrades, SheetInventory:
			// Recognized, but not position sheets.
			continue
		default:
			warnUnrecognized(name)
			continue
		}
		if err != nil {
			return nil, err
		}
		positions = append(positions, parsed...)
	}
	return positions, nil
}

// eachRow walks the data rows until the first one with a blank product cell,
// which marks the start of the trailing junk B3 appends after the data.
func (s *sheet) eachRow(fn func(i int, row []string) error) error {
	for i, row := range s.rows {
		if s.get(row, colProduct) == "" {
			break
		}
		if err := fn(i, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) readStocks() ([]irpf.Position, error) {
	s, err := w.sheet(SheetStocks, colProduct, colBroker, colQuantity, colTicker, colType, colCompanyCNPJ)
	if err != nil {
		return nil, err
	}
	var positions []irpf.Position
	err = s.eachRow(func(i int, row []string) error {
		var kind irpf.AssetKind
		switch t := s.get(row, colType); strings.ToUpper(t) {
		case "ON":
			kind = irpf.ON
		case "PN":
			kind = irpf.PN
		case "UNIT":
			kind = irpf.UNIT
		default:
			return s.malformed(i, colType, fmt.Errorf("unknown stock type %q", t))
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:   kind,
				Name:   s.get(row, colProduct),
				Broker: s.get(row, colBroker),
				Ticker: s.get(row, colTicker),
				CNPJ:   cnpjDigits(s.get(row, colCompanyCNPJ)),
			},
			Quantity: q,
		})
		return nil
	})
	return positions, err
}

func (w *Workbook) readBDRs() ([]irpf.Position, error) {
	s, err := w.sheet(SheetBDR, colProduct, colBroker, colQuantity, colTicker)
	if err != nil {
		return nil, err
	}
	var positions []irpf.Position
	err = s.eachRow(func(i int, row []string) error {
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:   irpf.BDR,
				Name:   s.get(row, colProduct),
				Broker: s.get(row, colBroker),
				Ticker: s.get(row, colTicker),
			},
			Quantity: q,
		})
		return nil
	})
	return positions, err
}

func (w *Workbook) readETFs() ([]irpf.Position, error) {
	s, err := w.sheet(SheetETF, colProduct, colBroker, colQuantity, colTicker, colFundCNPJ)
	if err != nil {
		return nil, err
	}
	return s.readFundRows(func(string) (irpf.AssetKind, error) { return irpf.ETF, nil })
}

func (w *Workbook) readFunds() ([]irpf.Position, error) {
	s, err := w.sheet(SheetFunds, colProduct, colBroker, colQuantity, colTicker, colType, colFundCNPJ)
	if err != nil {
		return nil, err
	}
	return s.readFundRows(func(t string) (irpf.AssetKind, error) {
		switch strings.ToLower(t) {
		case "cotas":
			return irpf.FII, nil
		case "recibo":
			return irpf.FIIReceipt, nil
		case "fundo":
			return irpf.FIDC, nil
		default:
			return irpf.KindUnrecognized, fmt.Errorf("unknown fund type %q", t)
		}
	})
}

// readFundRows parses ETF and investment-fund rows, which share a layout and
// differ only in how the fund type maps to an asset kind.
func (s *sheet) readFundRows(kindOf func(fundType string) (irpf.AssetKind, error)) ([]irpf.Position, error) {
	var positions []irpf.Position
	err := s.eachRow(func(i int, row []string) error {
		kind, err := kindOf(s.get(row, colType))
		if err != nil {
			return s.malformed(i, colType, err)
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:   kind,
				Name:   s.get(row, colProduct),
				Broker: s.get(row, colBroker),
				Ticker: s.get(row, colTicker),
				CNPJ:   cnpjDigits(s.get(row, colFundCNPJ)),
			},
			Quantity: q,
		})
		return nil
	})
	return positions, err
}

func (w *Workbook) readFixedIncome() ([]irpf.Position, error) {
	s, err := w.sheet(SheetFixedIncome, colProduct, colBroker, colQuantity, colIssuer, colMaturity)
	if err != nil {
		return nil, err
	}
	var positions []irpf.Position
	err = s.eachRow(func(i int, row []string) error {
		name := s.get(row, colProduct)
		var kind irpf.AssetKind
		prefix, _, _ := strings.Cut(name, "-")
		switch strings.ToLower(strings.TrimSpace(prefix)) {
		case "cdb":
			kind = irpf.CDB
		case "lci":
			kind = irpf.LCI
		case "lca":
			kind = irpf.LCA
		default:
			return s.malformed(i, colProduct, fmt.Errorf("unknown fixed income type in %q", name))
		}
		maturity, err := date.Parse(s.get(row, colMaturity))
		if err != nil {
			return s.malformed(i, colMaturity, err)
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:     kind,
				Name:     name,
				Broker:   s.get(row, colBroker),
				Issuer:   strings.ToUpper(s.get(row, colIssuer)),
				Maturity: maturity,
			},
			Quantity: q,
		})
		return nil
	})
	return positions, err
}

func (w *Workbook) readTreasuries() ([]irpf.Position, error) {
	s, err := w.sheet(SheetTreasury, colProduct, colBroker, colQuantity, colMaturity, colInvested)
	if err != nil {
		return nil, err
	}
	var positions []irpf.Position
	err = s.eachRow(func(i int, row []string) error {
		maturity, err := date.Parse(s.get(row, colMaturity))
		if err != nil {
			return s.malformed(i, colMaturity, err)
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return err
		}
		invested, err := s.money(row, i, colInvested)
		if err != nil {
			return err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:     irpf.Treasury,
				Name:     s.get(row, colProduct),
				Broker:   s.get(row, colBroker),
				Maturity: maturity,
			},
			Quantity: q,
			Amount:   invested,
		})
		return nil
	})
	return positions, err
}

func (w *Workbook) readLoans(classifier Classifier) ([]irpf.Position, error) {
	s, err := w.sheet(SheetLoans, colProduct, colBroker, colQuantity)
	if err != nil {
		return nil, err
	}
	var positions []irpf.Position
	err = s.eachRow(func(i int, row []string) error {
		name := s.get(row, colProduct)
		prefix, _, _ := strings.Cut(name, "-")
		ticker := strings.TrimSpace(prefix)
		kind, err := loanKind(ticker, classifier)
		if err != nil {
			return s.malformed(i, colProduct, err)
		}
		q, err := s.quantity(row, i, colQuantity)
		if err != nil {
			return err
		}
		positions = append(positions, irpf.Position{
			Asset: irpf.Asset{
				Kind:   kind,
				Name:   name,
				Broker: s.get(row, colBroker),
				Ticker: ticker,
			},
			Quantity: q,
		})
		return nil
	})
	return positions, err
}

// loanKind infers the asset kind of a loaned ticker from its suffix. The 11
// suffix is ambiguous (UNIT, ETF or FII look alike) and needs the
// classifier.
func loanKind(ticker string, classifier Classifier) (irpf.AssetKind, error) {
	switch {
	case strings.HasSuffix(ticker, "34"):
		return irpf.BDR, nil
	case strings.HasSuffix(ticker, "11"):
		if classifier == nil {
			return irpf.KindUnrecognized, fmt.Errorf("cannot determine the asset kind of %q without a ticker classifier", ticker)
		}
		kind, err := classifier.Classify(ticker)
		if err != nil {
			return irpf.KindUnrecognized, fmt.Errorf("cannot determine the asset kind of %q: %w", ticker, err)
		}
		return kind, nil
	case strings.HasSuffix(ticker, "3"):
		return irpf.ON, nil
	case strings.HasSuffix(ticker, "4"):
		return irpf.PN, nil
	default:
		return irpf.KindUnrecognized, fmt.Errorf("cannot determine the asset kind of %q", ticker)
	}
}
