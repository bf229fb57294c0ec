package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXRenderer renders the report as a spreadsheet with the same content
// contract as the PDF: title, header block, fixed-column table.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XLSXRenderer) FileExtension() string {
	return "xlsx"
}

func (r *XLSXRenderer) Render(doc *Document) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Logbook"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", doc.Title)
	f.SetCellValue(sheetName, "A3", "Student Name")
	f.SetCellValue(sheetName, "B3", doc.StudentName)
	f.SetCellValue(sheetName, "A4", "Matric Number")
	f.SetCellValue(sheetName, "B4", doc.MatricNumber)
	f.SetCellValue(sheetName, "A5", "Supervisor")
	f.SetCellValue(sheetName, "B5", doc.SupervisorName)
	f.SetCellValue(sheetName, "A6", "Period")
	f.SetCellValue(sheetName, "B6", fmt.Sprintf("%s to %s", doc.PeriodStart, doc.PeriodEnd))

	const tableStart = 8
	for i, header := range TableHeader {
		cell := fmt.Sprintf("%c%d", 'A'+i, tableStart)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"808080"}},
	})
	if err == nil {
		f.SetCellStyle(sheetName,
			fmt.Sprintf("A%d", tableStart),
			fmt.Sprintf("D%d", tableStart),
			headerStyle)
	}

	for rowIndex, row := range doc.Rows {
		values := []string{row.Date, row.Time, row.Activity, row.Status}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, tableStart+1+rowIndex)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Give the activity column room; wrapping is the reader's concern here.
	f.SetColWidth(sheetName, "C", "C", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
