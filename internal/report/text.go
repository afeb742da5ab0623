package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/pyreview/internal/review"
)

// WriteText writes the report as human-readable styled text to the
// writer. Output uses lipgloss for color and formatting when the
// output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, r Report) error {
	s := DefaultStyles()

	fmt.Fprintln(w, s.Header.Render("=== Test Quality Report ==="))
	fmt.Fprintln(w)

	issues := flattenIssues(r.Results)
	if len(issues) == 0 {
		fmt.Fprintln(w, s.ScoreGood.Render("  No quality issues found."))
	} else {
		writeIssues(w, issues, s)
	}

	fmt.Fprintln(w)
	writeCategoryTable(w, r, s)
	fmt.Fprintln(w)
	writeSummary(w, r, s)
	return nil
}

// flattenIssues collects every issue, ordered errors first, then by
// file and line.
func flattenIssues(results []review.Result) []review.Issue {
	var issues []review.Issue
	for _, result := range results {
		issues = append(issues, result.Issues...)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		return a.Line < b.Line
	})
	return issues
}

func writeIssues(w io.Writer, issues []review.Issue, s Styles) {
	for _, issue := range issues {
		marker := s.SeverityStyle(issue.Severity).Render(
			fmt.Sprintf("[%s]", SeveritySymbol(issue.Severity)))
		fmt.Fprintf(w, "  %s %s\n", marker, issue.String())
		if issue.Suggestion != "" {
			fmt.Fprintln(w, s.Suggestion.Render("      Suggestion: "+issue.Suggestion))
		}
	}
}

func writeCategoryTable(w io.Writer, r Report, s Styles) {
	rows := make([][]string, 0, len(r.Score.Categories))
	for _, c := range r.Score.Categories {
		rows = append(rows, []string{
			c.Name,
			fmt.Sprintf("%.0f%%", c.Weight*100),
			fmt.Sprintf("%.1f", c.RawScore),
			fmt.Sprintf("%.1f", c.WeightedScore),
			fmt.Sprintf("%d", c.IssueCount),
		})
	}

	t := table.New().
		Width(76).
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			return s.TableCell
		}).
		Headers("CATEGORY", "WEIGHT", "RAW", "WEIGHTED", "ISSUES").
		Rows(rows...)

	fmt.Fprintln(w, t)
}

func writeSummary(w io.Writer, r Report, s Styles) {
	b := r.Score
	fmt.Fprintf(w, "  %s %d\n", s.SummaryLabel.Render("Tests analyzed:"), b.TotalTests)
	if b.ErrorCount > 0 {
		fmt.Fprintf(w, "  %s %s\n", s.SummaryLabel.Render("Errors:"),
			s.Error.Render(fmt.Sprintf("%d", b.ErrorCount)))
	}
	if b.WarningCount > 0 {
		fmt.Fprintf(w, "  %s %s\n", s.SummaryLabel.Render("Warnings:"),
			s.Warning.Render(fmt.Sprintf("%d", b.WarningCount)))
	}
	if b.InfoCount > 0 {
		fmt.Fprintf(w, "  %s %s\n", s.SummaryLabel.Render("Info:"),
			s.Info.Render(fmt.Sprintf("%d", b.InfoCount)))
	}

	if r.Performance != nil && r.Performance.TotalMS > 0 {
		fmt.Fprintf(w, "  %s %.0fms total, %.0fms avg, %.0fms max\n",
			s.SummaryLabel.Render("Execution:"),
			r.Performance.TotalMS, r.Performance.AvgMS, r.Performance.MaxMS)
	}

	fmt.Fprintln(w)
	scoreLine := fmt.Sprintf("%.1f/100 (%s)", b.TotalScore, b.Grade)
	fmt.Fprintf(w, "  %s %s\n", s.SummaryLabel.Render("Overall Score:"),
		s.ScoreStyle(b.TotalScore).Render(scoreLine))
}
