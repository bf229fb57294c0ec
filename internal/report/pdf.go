package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	lineHeight = 5.0
	pageBreakY = 260.0
)

// Column widths in mm; the activity column takes the bulk of the width and
// its text is wrapped to fit.
var colWidths = [4]float64{30, 32, 105, 25}

// PDFRenderer renders the report as a letter-sized PDF with a styled table.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) FileExtension() string {
	return "pdf"
}

func (r *PDFRenderer) Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Student / supervisor header block
	pdf.SetFont("Helvetica", "", 10)
	r.headerLine(pdf, "Student Name", doc.StudentName)
	r.headerLine(pdf, "Matric Number", doc.MatricNumber)
	r.headerLine(pdf, "Supervisor", doc.SupervisorName)
	r.headerLine(pdf, "Period", fmt.Sprintf("%s to %s", doc.PeriodStart, doc.PeriodEnd))
	pdf.Ln(6)

	r.tableHeader(pdf)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range doc.Rows {
		r.tableRow(pdf, row)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) headerLine(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(35, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) tableHeader(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(245, 245, 245)
	for i, title := range TableHeader {
		last := 0
		if i == len(TableHeader)-1 {
			last = 1
		}
		pdf.CellFormat(colWidths[i], 8, title, "1", last, "L", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
}

func (r *PDFRenderer) tableRow(pdf *fpdf.Fpdf, row Row) {
	lines := pdf.SplitText(row.Activity, colWidths[2]-2)
	if len(lines) == 0 {
		lines = []string{""}
	}
	rowHeight := float64(len(lines)) * lineHeight

	if pdf.GetY()+rowHeight > pageBreakY {
		pdf.AddPage()
		r.tableHeader(pdf)
	}

	x, y := pdf.GetXY()
	pdf.CellFormat(colWidths[0], rowHeight, row.Date, "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], rowHeight, row.Time, "1", 0, "L", false, 0, "")

	// Wrapped activity cell; the border is drawn separately so it spans the
	// whole row height.
	actX := x + colWidths[0] + colWidths[1]
	pdf.Rect(actX, y, colWidths[2], rowHeight, "D")
	pdf.SetXY(actX+1, y)
	for _, line := range lines {
		pdf.CellFormat(colWidths[2]-2, lineHeight, line, "", 2, "L", false, 0, "")
	}

	pdf.SetXY(actX+colWidths[2], y)
	pdf.CellFormat(colWidths[3], rowHeight, row.Status, "1", 1, "L", false, 0, "")
}
