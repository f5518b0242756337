package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	slipWidth   = 190.0
	slipLine    = 6.0
	slipPadding = 3.0
	labelWidth  = 40.0
	slipBottom  = 20.0 // bottom margin plus footer
)

// PDFExporter renders each dataset row as a cut-out slip listing every column
// as a label/value line.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates an A4 document of slips, headed by title on every slip when
// title is set.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 8)
		footer := fmt.Sprintf("page %d", pdf.PageNo())
		if title != "" {
			footer = tr(title) + " - " + footer
		}
		pdf.CellFormat(0, 5, footer, "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	lines := len(data.Headers)
	if title != "" {
		lines++
	}
	height := float64(lines)*slipLine + 2*slipPadding
	_, pageHeight := pdf.GetPageSize()

	for _, row := range data.Rows {
		if pdf.GetY()+height > pageHeight-slipBottom {
			pdf.AddPage()
		}
		x, y := pdf.GetXY()
		pdf.SetDashPattern([]float64{2, 1}, 0)
		pdf.Rect(x, y, slipWidth, height, "D")
		pdf.SetDashPattern([]float64{}, 0)

		pdf.SetXY(x+slipPadding, y+slipPadding)
		if title != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(slipWidth-2*slipPadding, slipLine, tr(title), "", 2, "L", false, 0, "")
		}
		for _, header := range data.Headers {
			pdf.SetX(x + slipPadding)
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(labelWidth, slipLine, tr(header), "", 0, "L", false, 0, "")
			pdf.SetFont("Courier", "", 11)
			pdf.CellFormat(slipWidth-labelWidth-2*slipPadding, slipLine, tr(row[header]), "", 1, "L", false, 0, "")
		}
		pdf.SetXY(x, y+height+4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
