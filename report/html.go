package report

import (
	_ "embed"
	"html/template"
	"io"
)

//go:embed templates/report.html
var htmlSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"comma": comma,
}).Parse(htmlSource))

// WriteHTML writes the report as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	return htmlTemplate.Execute(w, r)
}
