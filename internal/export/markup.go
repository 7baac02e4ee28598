package export

import (
	"bytes"
	"html/template"
	"strings"
)

var markupTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
@page { size: A4 {{if .Landscape}}landscape{{else}}portrait{{end}}; margin: 10mm; }
body { font-family: Arial, sans-serif; font-size: 10px; margin: 0; padding: 10px; }
.logo-container { text-align: center; margin-bottom: 10px; }
.logo { max-width: 180px; max-height: 60px; }
h1 { text-align: center; font-size: 18px; margin-bottom: 5px; color: #112d47; }
.date { text-align: center; font-size: 11px; margin-bottom: 10px; color: #666; }
table { width: 100%; border-collapse: collapse; font-size: 9px; }
th { background-color: #4b7c70; color: white; padding: 6px 4px; border: 1px solid #000; text-align: center; }
td { border: 1px solid #000; padding: 4px; vertical-align: middle; }
tr:nth-child(even) { background-color: #f5f5f5; }
.declaration { text-align: right; margin-top: 30px; padding: 15px; border: 1px solid #ccc; background: #f9f9f9; font-size: 11px; line-height: 1.8; }
.signatures { display: flex; justify-content: space-between; margin-top: 40px; padding: 0 20px; }
.signature-box { text-align: center; width: {{.BoxWidth}}%; }
.signature-title { font-weight: bold; font-size: 12px; color: #112d47; margin-bottom: 30px; }
.signature-line { border-top: 1px solid #000; margin-top: 40px; padding-top: 5px; font-size: 10px; color: #666; }
</style>
</head>
<body>
{{if .Logo}}<div class="logo-container"><img src="{{.Logo}}" class="logo" alt="Logo"></div>
{{end}}<h1>{{.Title}}</h1>
<div class="date">{{.Summary}}</div>
<table>
<thead>
<tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Table.Rows}}<tr>{{range $i, $cell := .}}<td{{if eq $i $.DescriptionColumn}} dir="rtl"{{end}}>{{$cell}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{with .Signatures}}{{if .Declaration}}<div class="declaration" dir="rtl">{{.Declaration}}</div>
{{end}}<div class="signatures"{{if .RightToLeft}} dir="rtl"{{end}}>
{{range .Boxes}}<div class="signature-box"><div class="signature-title">{{.Title}}</div><div class="signature-line">{{.Line}}</div></div>
{{end}}</div>{{end}}
</body>
</html>
`))

type markupData struct {
	Title             string
	Summary           string
	Logo              template.URL
	Landscape         bool
	Table             Table
	DescriptionColumn int
	Signatures        SignatureBlock
	BoxWidth          int
}

// RenderMarkup renders the report as a self-contained HTML document.
func RenderMarkup(report Report) (string, error) {
	return renderMarkup(report, true)
}

func renderMarkup(report Report, landscape bool) (string, error) {
	sig := Signatures(report.UseAlternateSignatureBlock())
	width := 30
	if len(sig.Boxes) == 2 {
		width = 45
	}

	data := markupData{
		Title:             report.Title,
		Summary:           report.Summary(),
		Landscape:         landscape,
		Table:             BuildTable(report.Items),
		DescriptionColumn: descriptionColumn,
		Signatures:        sig,
		BoxWidth:          width,
	}
	if strings.HasPrefix(report.LogoDataURI, "data:image/") {
		data.Logo = template.URL(report.LogoDataURI)
	}

	var buf bytes.Buffer
	if err := markupTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
