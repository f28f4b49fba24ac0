package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"market-insights-service/internal/analytics/core/domain"
)

var (
	headerColor     = [3]int{40, 40, 40}
	headerTextColor = [3]int{255, 255, 255}
	bodyTextColor   = [3]int{50, 50, 50}
	lineColor       = [3]int{200, 200, 200}
)

// WritePDF renders a one-page summary: statistics and the ranked breakdown.
func WritePDF(w io.Writer, id string, d *domain.Dashboard) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr("Report "+id), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	title := fmt.Sprintf("  Market dashboard by %s", d.Dimension)
	pdf.CellFormat(0, 12, tr(title), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	period := fmt.Sprintf("  %s to %s (%s)", d.Range.Start.Format(domain.DateLayout), d.Range.End.Format(domain.DateLayout), d.Preset)
	pdf.CellFormat(0, 8, tr(period), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	section := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}

	section("Statistics")
	statsTable(pdf, d.Selection, d.Overall)
	pdf.Ln(8)

	section("Breakdown")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 7, tr(d.Dimension), "B", 0, "L", false, 0, "")
	pdf.CellFormat(70, 7, "Total", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if len(d.Aggregation.Breakdown) == 0 {
		pdf.CellFormat(190, 7, "No data", "", 1, "L", false, 0, "")
	}
	for _, b := range d.Aggregation.Breakdown {
		pdf.CellFormat(120, 6, tr(b.Key), "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 6, formatNumber(b.Total), "", 1, "R", false, 0, "")
	}

	if skipped := d.Skipped + d.Aggregation.Skipped; skipped > 0 || d.Aggregation.Unknown > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		note := fmt.Sprintf("%d records skipped (bad timestamp), %d without %s", skipped, d.Aggregation.Unknown, d.Dimension)
		pdf.MultiCell(190, 5, tr(note), "", "L", false)
	}

	return pdf.Output(w)
}

func statsTable(pdf *gofpdf.Fpdf, selection, overall domain.Statistics) {
	rows := []struct {
		label    string
		sel, all string
	}{
		{"Count", fmt.Sprint(selection.Count), fmt.Sprint(overall.Count)},
		{"Total", formatNumber(selection.Total), formatNumber(overall.Total)},
		{"Average", fmt.Sprintf("%.2f", selection.Average), fmt.Sprintf("%.2f", overall.Average)},
		{"Median", fmt.Sprintf("%.2f", selection.Median), fmt.Sprintf("%.2f", overall.Median)},
		{"Min", formatNumber(selection.Min), formatNumber(overall.Min)},
		{"Max", formatNumber(selection.Max), formatNumber(overall.Max)},
		{"Std. deviation", fmt.Sprintf("%.3f", selection.StandardDeviation), fmt.Sprintf("%.3f", overall.StandardDeviation)},
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 7, "", "B", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Selection", "B", 0, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Overall", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(70, 6, r.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, r.sel, "", 0, "R", false, 0, "")
		pdf.CellFormat(60, 6, r.all, "", 1, "R", false, 0, "")
	}
}
