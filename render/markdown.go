// Package render emits the declaration report, as markdown for the terminal
// and as an xlsx workbook for archiving and next year's carry-forward.
package render

import (
	"fmt"
	"strings"

	"github.com/b3tax/irpf"
)

// DeclarationMarkdown renders the Bens e Direitos entries for the given
// fiscal year as a markdown document.
func DeclarationMarkdown(year int, investments []*irpf.Investment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Bens e Direitos — ano-calendário %d\n\n", year)
	if len(investments) == 0 {
		fmt.Fprintln(&b, "Nothing to declare: no positions found.")
		return b.String()
	}

	fmt.Fprintf(&b, "| Grupo | Código | CNPJ | Descrição | Código de Negociação | Situação em %d | Situação em %d | Repetir |\n", year-1, year)
	fmt.Fprintln(&b, "|---:|---:|:---|:---|:---|---:|---:|:---:|")
	for _, v := range investments {
		repeat := ""
		if v.RepeatAmount() {
			repeat = "Repetir"
		}
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s | %s | %s |\n",
			v.Asset.Kind.Group(),
			v.Asset.Kind.Code(),
			v.Asset.DisplayCNPJ(),
			v.Description(year),
			v.Asset.Ticker,
			v.OpeningAmount,
			v.ClosingAmount,
			repeat,
		)
	}

	notes := investmentNotes(investments)
	if len(notes) > 0 {
		fmt.Fprint(&b, "\n## Observações\n\n")
		for _, note := range notes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}
	return b.String()
}

// investmentNotes collects the per-investment caveats the declarant should
// double-check by hand.
func investmentNotes(investments []*irpf.Investment) []string {
	var notes []string
	for _, v := range investments {
		if v.PriorAmountUnavailable() {
			notes = append(notes, fmt.Sprintf("%s: situação no ano anterior não disponível, verificar último valor declarado", v.Asset.Key()))
		}
		if v.MissingTransactions() {
			notes = append(notes, fmt.Sprintf("%s: verificar outros eventos acionários como desdobramentos, grupamentos e/ou bonificações", v.Asset.Key()))
		}
	}
	return notes
}

// PositionsMarkdown renders normalized position rows as a markdown table.
func PositionsMarkdown(positions []irpf.Position) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Positions (%d)\n\n", len(positions))
	fmt.Fprintln(&b, "| Kind | Key | Name | Broker | Quantity | Amount |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|")
	for _, p := range positions {
		amount := ""
		if !p.Amount.IsZero() {
			amount = p.Amount.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			p.Asset.Kind, p.Asset.Key(), p.Asset.Name, p.Asset.Broker, p.Quantity, amount)
	}
	return b.String()
}

// TransactionsMarkdown renders trades as a markdown table.
func TransactionsMarkdown(transactions []irpf.Transaction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Transactions (%d)\n\n", len(transactions))
	fmt.Fprintln(&b, "| Date | Operation | Ticker | Broker | Quantity | Price | Total |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|")
	for _, tx := range transactions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date, tx.Operation, tx.Ticker, tx.Broker, tx.Quantity, tx.Price, tx.Amount)
	}
	return b.String()
}

// SheetsMarkdown lists the sheets of a workbook and whether each one is
// recognized by the parser.
func SheetsMarkdown(path string, sheets []string, recognized func(string) bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sheets in %s\n\n", path)
	for _, name := range sheets {
		status := "recognized"
		if !recognized(name) {
			status = "unrecognized, will be skipped"
		}
		fmt.Fprintf(&b, "- %s (%s)\n", name, status)
	}
	return b.String()
}
