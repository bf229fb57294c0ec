// Package report renders an assembled logbook window into a portable
// document. Renderers consume a Document and know nothing about how its rows
// were selected.
package report

// Row is one table line of the generated report.
type Row struct {
	Date     string
	Time     string
	Activity string
	Status   string
}

// Document is the full content contract of a generated report: a fixed
// title, a student/supervisor header block, the queried period and one row
// per log entry. A document with zero rows is still rendered.
type Document struct {
	Title          string
	StudentName    string
	MatricNumber   string
	SupervisorName string
	PeriodStart    string
	PeriodEnd      string
	Rows           []Row
}

// TableHeader is the fixed header row of the report table.
var TableHeader = [4]string{"Date", "Time", "Activity", "Status"}

// Renderer turns a Document into a downloadable byte stream.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}
