package report

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

// Field is one labelled line of the patient profile header.
type Field struct {
	Label string
	Value string
}

// Table is one reading kind laid out as rows of already formatted cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Empty   string
}

// Document is the rendering-neutral content of a report. Callers localize and
// format every string before handing it over.
type Document struct {
	Language string
	Subject  string
	Title    string
	Intro    string
	Profile  []Field
	Tables   []Table
	Footer   string
}

//go:embed templates/*.html
var templateFiles embed.FS

var htmlTemplate = template.Must(
	template.New("report.html").Funcs(template.FuncMap{
		"hasRows": func(table Table) bool { return len(table.Rows) > 0 },
	}).ParseFS(templateFiles, "templates/report.html"),
)

// RenderHTML renders the document as an email body.
func RenderHTML(document Document) (string, error) {
	var builder strings.Builder
	if err := htmlTemplate.Execute(&builder, document); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return builder.String(), nil
}
