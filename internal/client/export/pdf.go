package export

import (
	"io"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 10.0
	rowHeight  = 7.0
	fontSize   = 9.0
)

// column widths in mm, summing to the printable width of landscape A4
var widths = []float64{40, 55, 30, 45, 20, 22, 45, 20}

// PDF draws rows as a landscape A4 table. The header row is repeated on
// every page.
func PDF(w io.Writer, rows []models.Registration, title string) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageH := pdf.GetPageSize()

	header := func() {
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range columns {
			pdf.CellFormat(widths[i], rowHeight, c, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", fontSize)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	header()

	for _, r := range rows {
		if pdf.GetY()+rowHeight > pageH-pageMargin {
			pdf.AddPage()
			header()
		}
		for i, cell := range row(r) {
			align := "L"
			if i == attendeesCol {
				align = "R"
			}
			pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(cell), widths[i]-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// fit truncates s to width, marking the cut with "...".
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}
