package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/b3tax/irpf"
)

// formatBRL is the cell number format for declared amounts.
const formatBRL = "[$R$ ]#,##0.00"

const (
	sheetAssets    = "Bens e Direitos"
	sheetInventory = "Inventário"
)

// WriteReport writes the declaration workbook: the Bens e Direitos sheet
// with one row per investment, and the Inventário sheet that next year's run
// reads back for the carry-forward. The file is written atomically, so a
// failure never leaves a partial report behind.
func WriteReport(path string, year int, investments []*irpf.Investment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeAssetsSheet(f, year, investments); err != nil {
		return fmt.Errorf("writing %q: %w", sheetAssets, err)
	}
	if err := writeInventorySheet(f, year, investments); err != nil {
		return fmt.Errorf("writing %q: %w", sheetInventory, err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}
	return os.Rename(tmp, path)
}

func writeAssetsSheet(f *excelize.File, year int, investments []*irpf.Investment) error {
	if _, err := f.NewSheet(sheetAssets); err != nil {
		return err
	}

	header := []interface{}{
		"Grupo", "Código", "CNPJ", "Descrição", "Código de Negociação",
		fmt.Sprintf("Situação em %d", year-1), fmt.Sprintf("Situação em %d", year),
		"Repetir valor", "Observações",
	}
	if err := f.SetSheetRow(sheetAssets, "A1", &header); err != nil {
		return err
	}

	for i, v := range investments {
		repeat := ""
		if v.RepeatAmount() {
			repeat = "Repetir"
		}
		row := []interface{}{
			v.Asset.Kind.Group(),
			v.Asset.Kind.Code(),
			v.Asset.DisplayCNPJ(),
			v.Description(year),
			v.Asset.Ticker,
			v.OpeningAmount.Float64(),
			v.ClosingAmount.Float64(),
			repeat,
			notesCell(v),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetAssets, cell, &row); err != nil {
			return err
		}
	}

	last := len(investments) + 1
	if err := styleHeader(f, sheetAssets, "A1", "I1"); err != nil {
		return err
	}
	if err := styleCurrency(f, sheetAssets, fmt.Sprintf("F2:G%d", last)); err != nil {
		return err
	}
	if err := styleCentered(f, sheetAssets, fmt.Sprintf("A2:B%d", last)); err != nil {
		return err
	}
	if err := styleWrapped(f, sheetAssets, fmt.Sprintf("I2:I%d", last)); err != nil {
		return err
	}

	widths := map[string]float64{"A": 7, "B": 7, "C": 20, "D": 72, "E": 12, "F": 16, "G": 16, "H": 12, "I": 48}
	return setWidths(f, sheetAssets, widths)
}

// notesCell joins the declarant caveats for one investment, one per line.
func notesCell(v *irpf.Investment) string {
	var notes []string
	if v.PriorAmountUnavailable() {
		notes = append(notes, "Situação no ano anterior não disponível, verificar último valor declarado")
	}
	if v.MissingTransactions() {
		notes = append(notes, "Verificar outros eventos acionários como: desdobramentos, grupamentos e/ou bonificações")
	}
	return strings.Join(notes, "\n")
}

func writeInventorySheet(f *excelize.File, year int, investments []*irpf.Investment) error {
	if _, err := f.NewSheet(sheetInventory); err != nil {
		return err
	}

	header := []interface{}{
		"Nome", "Instituição", "Tipo", "CNPJ", "Código de Negociação",
		"Data de Vencimento", "Emissor", "Quantidade",
		fmt.Sprintf("Situação em %d", year),
	}
	if err := f.SetSheetRow(sheetInventory, "A1", &header); err != nil {
		return err
	}

	i := 0
	for _, v := range investments {
		if v.Closed() {
			// Closed positions are declared once and not carried forward.
			continue
		}
		maturity := ""
		if !v.Asset.Maturity.IsZero() {
			maturity = v.Asset.Maturity.BR()
		}
		row := []interface{}{
			v.Asset.Name,
			v.Asset.Broker,
			v.Asset.Kind.String(),
			v.Asset.DisplayCNPJ(),
			v.Asset.Ticker,
			maturity,
			v.Asset.Issuer,
			v.ClosingQuantity.Float64(),
			v.ClosingAmount.Float64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetInventory, cell, &row); err != nil {
			return err
		}
		i++
	}

	if err := styleHeader(f, sheetInventory, "A1", "I1"); err != nil {
		return err
	}
	if err := styleCurrency(f, sheetInventory, fmt.Sprintf("I2:I%d", i+1)); err != nil {
		return err
	}

	widths := map[string]float64{"A": 44, "B": 32, "C": 10, "D": 20, "E": 12, "F": 14, "G": 24, "H": 12, "I": 16}
	return setWidths(f, sheetInventory, widths)
}

func styleHeader(f *excelize.File, sheet, from, to string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Helvetica", Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func styleCurrency(f *excelize.File, sheet, cellRange string) error {
	numFmt := formatBRL
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	from, to, _ := strings.Cut(cellRange, ":")
	return f.SetCellStyle(sheet, from, to, style)
}

func styleCentered(f *excelize.File, sheet, cellRange string) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	from, to, _ := strings.Cut(cellRange, ":")
	return f.SetCellStyle(sheet, from, to, style)
}

func styleWrapped(f *excelize.File, sheet, cellRange string) error {
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true},
	})
	if err != nil {
		return err
	}
	from, to, _ := strings.Cut(cellRange, ":")
	return f.SetCellStyle(sheet, from, to, style)
}

func setWidths(f *excelize.File, sheet string, widths map[string]float64) error {
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}
