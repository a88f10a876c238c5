package graphing

import (
	"html/template"
	"math"
	"strconv"
	"time"
)

// HTML fragments injected into the ECharts page.
var templates = template.Must(template.New("").Funcs(templateFuncs).Parse(`
{{define "head"}}
{{- if .RefreshSeconds}}
    <meta http-equiv="refresh" content="{{.RefreshSeconds}}">
{{- end}}
    {{template "styles" .}}
{{end}}

{{define "styles"}}
<style>
* {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
}
body {
    max-width: 1400px;
    margin: 0 auto;
    padding: 20px;
}
.info-container {
    margin-bottom: 20px;
}
.info-header {
    border-bottom: 2px solid #333;
    padding-bottom: 10px;
    margin-bottom: 15px;
}
.info-header h1 {
    margin: 0;
    font-size: 18px;
}
.session-id {
    font-size: 11px;
    color: #666;
    font-family: monospace;
}
.info-section {
    margin-bottom: 15px;
    padding: 15px;
    background: #f5f5f5;
    border: 1px solid #ddd;
}
.info-section h3 {
    margin: 0 0 10px 0;
    font-size: 13px;
}
.info-table {
    border-collapse: collapse;
    font-size: 12px;
}
.info-table td, .info-table th {
    padding: 3px 8px;
    border-bottom: 1px solid #eee;
    text-align: right;
}
.info-table td:first-child, .info-table th:first-child {
    color: #666;
    text-align: left;
}
.info-table td {
    font-family: monospace;
    font-size: 11px;
}
</style>
{{end}}

{{define "info"}}
<div class="info-container">
    <div class="info-header">
        <h1>{{.Title}}</h1>
        <div class="session-id">Session: {{.SessionID}} | Generated: {{formatTime .Generated}}</div>
    </div>
    <div class="info-section">
        <h3>Series</h3>
        <table class="info-table">
            <tr><td>Source</td><td>{{.Source}}</td></tr>
            <tr><td>Samples</td><td>{{.Samples}}</td></tr>
            <tr><td>Elapsed</td><td>{{.Elapsed}}</td></tr>
            <tr><td>Sample rate</td><td>{{formatFloat .SampleRate}} Hz</td></tr>
        </table>
    </div>
    <div class="info-section">
        <h3>Linear regression</h3>
        {{- if .Regression.Valid}}
        <table class="info-table">
            <tr><td>Slope</td><td>{{printf "%.4f" .Regression.Slope}}</td></tr>
            <tr><td>Intercept</td><td>{{printf "%.4f" .Regression.Intercept}}</td></tr>
            <tr><td>R-squared</td><td>{{printf "%.4f" .Regression.RSquared}}</td></tr>
            <tr><td>P-value</td><td>{{printf "%.4f" .Regression.PValue}}</td></tr>
            <tr><td>Standard Error</td><td>{{printf "%.4f" .Regression.StdErr}}</td></tr>
        </table>
        {{- else}}
        <p>Not enough samples.</p>
        {{- end}}
    </div>
    {{- if .Summary}}
    <div class="info-section">
        <h3>Statistical summary</h3>
        <table class="info-table">
            <tr><th></th>{{range .Summary}}<th>{{.Name}}</th>{{end}}</tr>
            <tr><td>count</td>{{range .Summary}}<td>{{.Count}}</td>{{end}}</tr>
            <tr><td>mean</td>{{range .Summary}}<td>{{formatFloat .Mean}}</td>{{end}}</tr>
            <tr><td>std</td>{{range .Summary}}<td>{{formatFloat .Std}}</td>{{end}}</tr>
            <tr><td>min</td>{{range .Summary}}<td>{{formatFloat .Min}}</td>{{end}}</tr>
            <tr><td>25%</td>{{range .Summary}}<td>{{formatFloat .Q25}}</td>{{end}}</tr>
            <tr><td>50%</td>{{range .Summary}}<td>{{formatFloat .Q50}}</td>{{end}}</tr>
            <tr><td>75%</td>{{range .Summary}}<td>{{formatFloat .Q75}}</td>{{end}}</tr>
            <tr><td>max</td>{{range .Summary}}<td>{{formatFloat .Max}}</td>{{end}}</tr>
        </table>
    </div>
    {{- end}}
</div>
{{end}}
`))

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
	"formatFloat": func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "NaN"
		}
		return strconv.FormatFloat(v, 'g', 10, 64)
	},
}
