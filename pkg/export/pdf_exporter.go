package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0 // A4 landscape minus margins
	pdfRowHeight = 7.0
	ellipsis     = "..."
)

// PDFExporter renders datasets into a landscape table. Column widths follow Weights when set,
// otherwise the page is split evenly. Cells that do not fit are truncated.
type PDFExporter struct {
	Weights []float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter(weights ...float64) *PDFExporter {
	return &PDFExporter{Weights: weights}
}

// Render creates a PDF document with an optional title and a repeated header row per page.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate("pdf"); err != nil {
		return nil, err
	}
	widths := e.columnWidths(len(data.Headers))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], pdfRowHeight+1, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], pdfRowHeight, fit(pdf, tr(cell), widths[i]-2), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType is the MIME type of PDF output.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension is the file extension of PDF output.
func (e *PDFExporter) Extension() string { return "pdf" }

func (e *PDFExporter) columnWidths(n int) []float64 {
	widths := make([]float64, n)
	if len(e.Weights) != n {
		for i := range widths {
			widths[i] = pdfPageWidth / float64(n)
		}
		return widths
	}
	var sum float64
	for _, w := range e.Weights {
		sum += w
	}
	for i, w := range e.Weights {
		widths[i] = pdfPageWidth * w / sum
	}
	return widths
}

// fit works on bytes: text is already translated to the single byte core font encoding.
func fit(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	cut := len(text)
	for cut > 0 && pdf.GetStringWidth(text[:cut]+ellipsis) > width {
		cut--
	}
	return text[:cut] + ellipsis
}
