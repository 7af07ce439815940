package export

import (
	"html/template"
	"strings"

	"github.com/gemline/backoffice/internal/domain/report"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const reportLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{title .Title}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 10pt; color: #222; }
  h1 { font-size: 16pt; margin: 0 0 2mm 0; }
  .subtitle { color: #666; margin-bottom: 6mm; }
  table { width: 100%; border-collapse: collapse; }
  th { background: #44546a; color: #fff; text-align: left; padding: 2mm; }
  td { padding: 1.5mm 2mm; border-bottom: 1px solid #ddd; }
  tr:nth-child(even) td { background: #f6f6f6; }
  .right { text-align: right; }
  tfoot td { font-weight: bold; border-top: 2px solid #222; border-bottom: none; }
  .empty { color: #888; text-align: center; padding: 8mm; }
</style>
</head>
<body>
<h1>{{title .Title}}</h1>
<div class="subtitle">{{.Subtitle}}{{if not .GeneratedAt.IsZero}} &middot; generated {{.GeneratedAt.Format "2006-01-02 15:04"}}{{end}}</div>
<table>
<thead><tr>{{range .Columns}}<th{{if isRight .}} class="right"{{end}}>{{.Header}}</th>{{end}}</tr></thead>
<tbody>
{{- $cols := .Columns}}
{{- range .Rows}}
<tr>{{range $i, $v := .}}<td{{if isRight (col $cols $i)}} class="right"{{end}}>{{$v}}</td>{{end}}</tr>
{{- else}}
<tr><td class="empty" colspan="{{len .Columns}}">No data for this period</td></tr>
{{- end}}
</tbody>
{{- if and .Totals .Rows}}
<tfoot><tr>{{range $i, $v := .Totals}}<td{{if isRight (col $cols $i)}} class="right"{{end}}>{{$v}}</td>{{end}}</tr></tfoot>
{{- end}}
</table>
</body>
</html>`

// footerTemplate uses the placeholder classes Chrome fills while printing
const footerTemplate = `<div style="font-size:8px;width:100%;text-align:center;color:#888;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

var titleCaser = cases.Title(language.English)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"title": func(s string) string { return titleCaser.String(strings.TrimSpace(s)) },
		"isRight": func(c report.Column) bool {
			return c.Align == report.AlignRight
		},
		"col": func(cols []report.Column, i int) report.Column {
			if i < len(cols) {
				return cols[i]
			}
			return report.Column{}
		},
	}
}

func parseLayout() *template.Template {
	return template.Must(template.New("report").Funcs(templateFuncs()).Parse(reportLayout))
}
