package render_test

import (
	"strings"
	"testing"

	"github.com/b3tax/irpf"
	"github.com/b3tax/irpf/b3"
	"github.com/b3tax/irpf/render"
)

func TestDeclarationMarkdown(t *testing.T) {
	md := render.DeclarationMarkdown(2025, declaration(t))

	for _, want := range []string{
		"ano-calendário 2025",
		"Situação em 2024",
		"Situação em 2025",
		"| 3 | 1 |", // stock group and code
		"33.000.167/0001-01",
		"100 ações ON emitidas pela empresa PETROLEO BRASILEIRO S.A.",
		"Repetir",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("DeclarationMarkdown() is missing %q in:\n%s", want, md)
		}
	}
}

func TestDeclarationMarkdown_Empty(t *testing.T) {
	md := render.DeclarationMarkdown(2025, nil)
	if !strings.Contains(md, "Nothing to declare") {
		t.Errorf("DeclarationMarkdown(nil) = %q, want an empty-declaration notice", md)
	}
}

func TestDeclarationMarkdown_Notes(t *testing.T) {
	// A position with no opening amount and no trades triggers both caveats.
	inv := irpf.NewInventory()
	inv.AddOpeningPositions([]irpf.Position{{
		Asset:    irpf.Asset{Kind: irpf.ON, Name: "VALE3 - VALE S.A.", Ticker: "VALE3"},
		Quantity: irpf.Q(100),
	}})
	inv.AddPositions([]irpf.Position{{
		Asset:    irpf.Asset{Kind: irpf.ON, Name: "VALE3 - VALE S.A.", Ticker: "VALE3"},
		Quantity: irpf.Q(150),
	}})

	md := render.DeclarationMarkdown(2025, inv.Investments())
	if !strings.Contains(md, "## Observações") {
		t.Fatalf("DeclarationMarkdown() has no notes section in:\n%s", md)
	}
	if !strings.Contains(md, "VALE3: situação no ano anterior não disponível") {
		t.Errorf("DeclarationMarkdown() is missing the prior-amount caveat in:\n%s", md)
	}
	if !strings.Contains(md, "desdobramentos") {
		t.Errorf("DeclarationMarkdown() is missing the corporate-events caveat in:\n%s", md)
	}
}

func TestSheetsMarkdown(t *testing.T) {
	md := render.SheetsMarkdown("report.xlsx", []string{"Acoes", "Proventos"}, b3.Recognized)
	if !strings.Contains(md, "- Acoes (recognized)") {
		t.Errorf("SheetsMarkdown() is missing the recognized entry in:\n%s", md)
	}
	if !strings.Contains(md, "- Proventos (unrecognized, will be skipped)") {
		t.Errorf("SheetsMarkdown() is missing the unrecognized entry in:\n%s", md)
	}
}
