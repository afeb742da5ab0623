package report

import (
	"html/template"
	"io"

	"github.com/unbound-force/pyreview/internal/review"
)

// htmlTemplate renders a self-contained single-file report: embedded
// CSS, no external assets.
var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"symbol": SeveritySymbol,
	"pct":    func(f float64) float64 { return f * 100 },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test Quality Report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1f2328; }
  h1 { border-bottom: 2px solid #d0d7de; padding-bottom: .3rem; }
  .score { font-size: 2.5rem; font-weight: 700; }
  .grade-A, .grade-B { color: #1a7f37; }
  .grade-C, .grade-D { color: #9a6700; }
  .grade-F { color: #cf222e; }
  table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
  th, td { border: 1px solid #d0d7de; padding: .4rem .6rem; text-align: left; }
  th { background: #f6f8fa; }
  .sev-error { color: #cf222e; font-weight: 600; }
  .sev-warning { color: #9a6700; }
  .sev-info { color: #0969da; }
  .suggestion { color: #57606a; font-size: .9rem; }
  code { background: #f6f8fa; padding: .1rem .3rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>Test Quality Report</h1>
<p class="score grade-{{.Score.Grade}}">{{printf "%.1f" .Score.TotalScore}}/100 ({{.Score.Grade}})</p>
<p>{{.Score.TotalTests}} tests analyzed, {{.Score.TotalIssues}} issues
({{.Score.ErrorCount}} errors, {{.Score.WarningCount}} warnings, {{.Score.InfoCount}} info).</p>

<h2>Categories</h2>
<table>
<tr><th>Category</th><th>Weight</th><th>Raw</th><th>Weighted</th><th>Issues</th></tr>
{{range .Score.Categories}}<tr>
<td>{{.Name}}</td>
<td>{{printf "%.0f" (pct .Weight)}}%</td>
<td>{{printf "%.1f" .RawScore}}</td>
<td>{{printf "%.1f" .WeightedScore}}</td>
<td>{{.IssueCount}}</td>
</tr>{{end}}
</table>

{{if .Score.Penalties}}<h2>Penalties</h2>
<table>
<tr><th>Rule</th><th>Amount</th></tr>
{{range .Score.Penalties}}<tr><td><code>{{.Reason}}</code></td><td>-{{printf "%.0f" .Amount}}</td></tr>{{end}}
</table>{{end}}

<h2>Issues</h2>
{{if .Issues}}<table>
<tr><th></th><th>Rule</th><th>Location</th><th>Test</th><th>Message</th></tr>
{{range .Issues}}<tr>
<td class="sev-{{.Severity}}">{{symbol .Severity}}</td>
<td><code>{{.Rule}}</code></td>
<td>{{.FilePath}}{{if .Line}}:{{.Line}}{{end}}</td>
<td>{{.TestName}}</td>
<td>{{.Message}}{{if .Suggestion}}<div class="suggestion">{{.Suggestion}}</div>{{end}}</td>
</tr>{{end}}
</table>{{else}}<p>No quality issues found.</p>{{end}}

{{if .Performance}}<h2>Execution</h2>
<p>Total {{printf "%.0f" .Performance.TotalMS}}ms,
average {{printf "%.0f" .Performance.AvgMS}}ms,
max {{printf "%.0f" .Performance.MaxMS}}ms.
{{.Performance.SlowCount}} slow, {{.Performance.VerySlowCount}} very slow.</p>{{end}}
</body>
</html>
`))

// WriteHTML writes the report as a self-contained HTML page.
func WriteHTML(w io.Writer, r Report) error {
	data := struct {
		Report
		Issues []review.Issue
	}{
		Report: r,
		Issues: flattenIssues(r.Results),
	}
	return htmlTemplate.Execute(w, data)
}
