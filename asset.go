package irpf

import (
	"fmt"
	"strings"

	"github.com/b3tax/irpf/date"
)

// AssetKind identifies one of the B3 asset categories this tool understands.
// The set is closed: every sheet reader normalizes into one of these, and
// anything else is reported as KindUnrecognized and skipped.
type AssetKind int

const (
	KindUnrecognized AssetKind = iota
	ON                         // ordinary stock
	PN                         // preferred stock
	UNIT                       // stock unit
	ETF
	FII        // real-estate fund share
	FIIReceipt // real-estate fund subscription receipt
	FIDC       // receivables fund share
	BDR
	CDB
	LCI
	LCA
	Treasury
)

var kindNames = map[AssetKind]string{
	ON:         "ON",
	PN:         "PN",
	UNIT:       "UNIT",
	ETF:        "ETF",
	FII:        "FII",
	FIIReceipt: "FIIReceipt",
	FIDC:       "FIDC",
	BDR:        "BDR",
	CDB:        "CDB",
	LCI:        "LCI",
	LCA:        "LCA",
	Treasury:   "Treasury",
}

func (k AssetKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unrecognized"
}

// ParseAssetKind parses a kind name as written in the Inventário sheet.
func ParseAssetKind(s string) (AssetKind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return k, nil
		}
	}
	return KindUnrecognized, fmt.Errorf("unknown asset kind %q", s)
}

// Listed reports whether the kind trades on the exchange under a ticker.
func (k AssetKind) Listed() bool {
	switch k {
	case ON, PN, UNIT, ETF, FII, FIIReceipt, FIDC, BDR:
		return true
	}
	return false
}

// FixedIncome reports whether the kind is a fixed-income title with a
// maturity date.
func (k AssetKind) FixedIncome() bool {
	switch k {
	case CDB, LCI, LCA, Treasury:
		return true
	}
	return false
}

// Group returns the "Grupo" number of the IRPF Bens e Direitos form for this
// kind. FIIReceipt has no official slot and goes into 99 ("Outros").
func (k AssetKind) Group() int {
	switch k {
	case ON, PN, UNIT:
		return 3
	case BDR, CDB, LCI, LCA, Treasury:
		return 4
	case ETF, FII, FIDC:
		return 7
	default:
		return 99
	}
}

// Code returns the "Código" number within the group.
func (k AssetKind) Code() int {
	switch k {
	case ON, PN, UNIT:
		return 1
	case CDB, Treasury:
		return 2
	case LCI, LCA, FII:
		return 3
	case BDR:
		return 4
	case ETF:
		return 8
	case FIDC:
		return 10
	default:
		return 99
	}
}

// Asset is one investment instrument as it appears in a B3 report.
// Which fields are meaningful depends on the Kind: listed kinds carry a
// ticker and usually a CNPJ, fixed-income kinds a maturity date and, except
// for treasury bonds, an issuer.
type Asset struct {
	Kind     AssetKind
	Name     string // full product name, e.g. "PETR4 - PETROLEO BRASILEIRO S.A."
	Broker   string // institution holding the asset
	Ticker   string
	CNPJ     string // 14 digits, or empty when unknown
	Issuer   string
	Maturity date.Date
}

// Key identifies the asset across report sheets. Listed assets are keyed by
// ticker (the same ticker at two brokers is one declaration entry); fixed
// income is keyed by name and broker (two CDBs at different brokers are
// distinct entries).
func (a Asset) Key() string {
	if a.Kind.Listed() {
		return a.Ticker
	}
	return a.Name + " - " + a.Broker
}

// DisplayCNPJ formats the CNPJ as xx.xxx.xxx/xxxx-xx. BDRs have no Brazilian
// registration and display "N/A"; a missing CNPJ displays "Desconhecido".
func (a Asset) DisplayCNPJ() string {
	if a.Kind == BDR {
		return "N/A"
	}
	if a.CNPJ == "" {
		return "Desconhecido"
	}
	if len(a.CNPJ) != 14 {
		return a.CNPJ
	}
	c := a.CNPJ
	return fmt.Sprintf("%s.%s.%s/%s-%s", c[:2], c[2:5], c[5:8], c[8:12], c[12:])
}

// shortName is the part of the B3 product name after the ticker prefix,
// e.g. "PETROLEO BRASILEIRO S.A." out of "PETR4 - PETROLEO BRASILEIRO S.A.".
func (a Asset) shortName() string {
	if _, after, found := strings.Cut(a.Name, "-"); found {
		return strings.TrimSpace(after)
	}
	return a.Name
}

// Matured reports whether a fixed-income title matures within the reference
// year, in which case it is not carried into the next declaration.
func (a Asset) Matured(year int) bool {
	if !a.Kind.FixedIncome() || a.Maturity.IsZero() {
		return false
	}
	return a.Maturity.Before(date.New(year, 12, 31))
}

// Description writes the declaration description for this asset holding the
// given quantity, in the wording the tax authority expects.
func (a Asset) Description(q Quantity) string {
	switch a.Kind {
	case ON:
		return fmt.Sprintf("%s ações ON emitidas pela empresa %s", q, a.shortName())
	case PN:
		return fmt.Sprintf("%s ações PN emitidas pela empresa %s", q, a.shortName())
	case UNIT:
		return fmt.Sprintf("%s UNITs emitidas pela empresa %s", q, a.shortName())
	case ETF:
		return fmt.Sprintf("%s cotas do ETF %s", q, a.shortName())
	case BDR:
		return fmt.Sprintf("%s BDRs da empresa %s", q, a.shortName())
	case FII, FIDC:
		return fmt.Sprintf("%s cotas do fundo %s", q, a.shortName())
	case FIIReceipt:
		return fmt.Sprintf("%s recibos de subscrição do fundo %s (código de negociação: %s)", q, a.shortName(), a.Ticker)
	case CDB:
		return fmt.Sprintf("%s CDBs emitidos pelo banco %s, com vencimento em %s, sob custódia da corretora %s", q, a.Issuer, a.Maturity.BR(), a.Broker)
	case LCI:
		return fmt.Sprintf("%s LCIs emitidas pelo banco %s, com vencimento em %s, sob custódia da corretora %s", q, a.Issuer, a.Maturity.BR(), a.Broker)
	case LCA:
		return fmt.Sprintf("%s LCAs emitidas pelo banco %s, com vencimento em %s, sob custódia da corretora %s", q, a.Issuer, a.Maturity.BR(), a.Broker)
	case Treasury:
		return fmt.Sprintf("%s títulos do %s, com vencimento em %s, sob custódia da corretora %s", q, a.Name, a.Maturity.BR(), a.Broker)
	default:
		return fmt.Sprintf("%s %s", q, a.Name)
	}
}
