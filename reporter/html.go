package reporter

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"

	"gqlcheck/toolkit"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"seconds": func(ms int64) string { return fmt.Sprintf("%.2fs", float64(ms)/1000) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>GraphQL API Test Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #f0f0f0; }
tr.failed td { background: #fde8e8; }
tr.passed td { background: #e8f5e9; }
pre { margin: 0; white-space: pre-wrap; max-width: 40em; }
.error-item { border: 1px solid #e0b4b4; padding: 0.75em; margin-bottom: 0.75em; }
.error-type { color: #a33; font-weight: bold; }
</style>
</head>
<body>
<h1>GraphQL API Test Report</h1>

<div class="metrics-summary">
<h2>Test Metrics</h2>
<table>
<tr><td>Total Execution Time</td><td>{{seconds .Summary.TotalMS}}</td></tr>
<tr><td>Average Response Time</td><td>{{seconds .Summary.AvgLatencyMS}}</td></tr>
<tr><td>Total Queries</td><td>{{.Summary.Total}}</td></tr>
<tr><td>Passed</td><td>{{.Summary.Passed}}</td></tr>
<tr><td>Failed Queries</td><td>{{.Summary.Failed}}</td></tr>
<tr><td>Schema Violations</td><td>{{.Summary.SchemaViolations}}</td></tr>
</table>
</div>

{{if .Summary.ErrorKinds}}
<div class="error-breakdown">
<h2>Error Breakdown</h2>
<table>
{{range $kind, $count := .Summary.ErrorKinds}}<tr><td>{{$kind}}</td><td>{{$count}}</td></tr>
{{end}}</table>
</div>
{{end}}

<h2>Results</h2>
<table>
<tr><th>Test</th><th>Result</th><th>Response Time</th><th>Query</th><th>Schema</th><th>Details</th></tr>
{{range .Results}}<tr class="{{if .Passed}}passed{{else}}failed{{end}}">
<td>{{.Name}}</td>
<td>{{if .Passed}}passed{{else}}failed{{end}}</td>
<td>{{seconds .LatencyMS}}</td>
<td><pre>{{.Query}}</pre></td>
<td>{{.SchemaValidation}}</td>
<td>{{if not .Passed}}<pre>{{.Failure}}: {{.Why}}</pre>{{end}}</td>
</tr>
{{end}}</table>

{{if .Summary.Failed}}
<div class="detailed-errors">
<h2>Detailed Error Reports</h2>
{{range .Results}}{{if not .Passed}}
<div class="error-item">
<h3>{{.Name}}</h3>
<p class="error-type">{{.Failure}}</p>
<p class="error-message">{{.Why}}</p>
{{if .Error}}<pre>{{.Error}}</pre>{{end}}
{{if .Artifact}}<p>Artifact: {{.Artifact}}</p>{{end}}
</div>
{{end}}{{end}}
</div>
{{end}}
</body>
</html>
`))

// WriteHTML renders the session report with response time, query text and
// schema-validation columns plus a per-failure detail section.
func WriteHTML(path string, rep toolkit.Report) error {
	log.Printf("reporter.write_html: writing file=%s", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare output directory for %q: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create html report %q: %w", path, err)
	}
	defer f.Close()
	if err := reportTemplate.Execute(f, rep); err != nil {
		return fmt.Errorf("render html report %q: %w", path, err)
	}
	return nil
}
