package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/pyreview/internal/report"
	"github.com/unbound-force/pyreview/internal/review"
)

// keyMap defines keybindings for the interactive TUI.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	sevErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	sevWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	sevInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
)

// reviewModel is the Bubble Tea model for browsing review results.
type reviewModel struct {
	report   report.Report
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	content  string
}

func newReviewModel(r report.Report) reviewModel {
	h := help.New()
	content := renderReviewContent(r)
	return reviewModel{
		report:  r,
		help:    h,
		keys:    defaultKeyMap,
		content: content,
	}
}

func renderReviewContent(r report.Report) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(
		fmt.Sprintf("Test Quality: %.1f/100 (%s), %d test(s), %d issue(s)",
			r.Score.TotalScore, r.Score.Grade,
			r.Score.TotalTests, r.Score.TotalIssues)))
	sb.WriteString("\n\n")

	// Category table.
	catRows := make([][]string, 0, len(r.Score.Categories))
	for _, c := range r.Score.Categories {
		catRows = append(catRows, []string{
			c.Name,
			fmt.Sprintf("%.0f%%", c.Weight*100),
			fmt.Sprintf("%.1f", c.RawScore),
			fmt.Sprintf("%d", c.IssueCount),
		})
	}
	ct := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tuiBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tuiHeaderStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("CATEGORY", "WEIGHT", "RAW", "ISSUES").
		Rows(catRows...)
	sb.WriteString(ct.String())
	sb.WriteString("\n\n")

	// Issues grouped by analyzer.
	for _, result := range r.Results {
		if len(result.Issues) == 0 {
			continue
		}
		sb.WriteString(tuiHeaderStyle.Render(
			fmt.Sprintf("=== %s ===", result.AnalyzerName)))
		sb.WriteString("\n")

		rows := make([][]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			msg := issue.Message
			if len(msg) > 50 {
				msg = msg[:47] + "..."
			}
			rows = append(rows, []string{
				report.SeveritySymbol(issue.Severity),
				issue.Rule,
				issue.TestName,
				msg,
			})
		}

		severities := make([]review.Severity, len(result.Issues))
		for i, issue := range result.Issues {
			severities[i] = issue.Severity
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 0 && row >= 0 && row < len(severities) {
					switch severities[row] {
					case review.Error:
						return sevErrorStyle
					case review.Warning:
						return sevWarningStyle
					default:
						return sevInfoStyle
					}
				}
				return lipgloss.NewStyle()
			}).
			Headers("SEV", "RULE", "TEST", "MESSAGE").
			Rows(rows...)

		sb.WriteString(t.String())
		sb.WriteString("\n\n")
	}

	return sb.String()
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footer := statusStyle.Render(
		fmt.Sprintf(" %3.f%% ", m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveReview launches the Bubble Tea TUI for browsing
// review results.
func runInteractiveReview(r report.Report) error {
	model := newReviewModel(r)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
