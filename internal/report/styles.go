package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/pyreview/internal/review"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers.
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// Info, Warning, and Error color-code issue severities.
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Suggestion styles the indented suggestion line under an issue.
	Suggestion lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// ScoreGood, ScoreOK, and ScoreBad style the overall score line.
	ScoreGood lipgloss.Style
	ScoreOK   lipgloss.Style
	ScoreBad  lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("44")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		ScoreGood: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		ScoreOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		ScoreBad:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(20),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// SeverityStyle returns the style for a given severity.
func (s Styles) SeverityStyle(sev review.Severity) lipgloss.Style {
	switch sev {
	case review.Error:
		return s.Error
	case review.Warning:
		return s.Warning
	default:
		return s.Info
	}
}

// ScoreStyle returns the style for a numeric score.
func (s Styles) ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return s.ScoreGood
	case score >= 60:
		return s.ScoreOK
	default:
		return s.ScoreBad
	}
}

// SeveritySymbol is the single-character marker for a severity.
func SeveritySymbol(sev review.Severity) string {
	switch sev {
	case review.Error:
		return "X"
	case review.Warning:
		return "!"
	default:
		return "i"
	}
}
