package main

import (
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/observe"
	"github.com/unbound-force/pyreview/internal/report"
	"github.com/unbound-force/pyreview/internal/run"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "pyreview",
		Short: "pyreview is a quality reviewer for pytest test suites",
		Long: `pyreview statically analyzes pytest test files for quality
problems (weak assertions, unclear names, excessive complexity,
shared-state mutation, test smells) and scores the suite on a
weighted 0-100 scale with a letter grade.`,
		Version: version,
	}

	root.AddCommand(newReviewCmd())
	root.AddCommand(newSchemaCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// reviewParams holds the parsed flags for the review command.
type reviewParams struct {
	paths       []string
	format      string
	output      string
	configPath  string
	only        []string
	eventsPath  string
	strict      bool
	minScore    float64
	interactive bool
	stdout      io.Writer
}

// runReview is the extracted, testable body of the review command.
func runReview(p reviewParams) error {
	if p.format != "text" && p.format != "json" && p.format != "html" {
		return fmt.Errorf("invalid format %q: must be 'text', 'json', or 'html'", p.format)
	}

	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		logger.Warn("review disabled by configuration")
		return nil
	}
	if p.strict {
		cfg.Strict = true
	}
	if p.minScore >= 0 {
		cfg.MinScore = p.minScore
	}

	var events []observe.Event
	if p.eventsPath != "" {
		f, err := os.Open(p.eventsPath)
		if err != nil {
			return fmt.Errorf("opening events file: %w", err)
		}
		events, err = observe.ReadEvents(f)
		f.Close()
		if err != nil {
			return err
		}
		logger.Info("loaded execution events", "count", len(events))
	}

	logger.Info("reviewing test suite", "paths", p.paths)
	outcome, err := run.Review(run.Params{
		Paths:  p.paths,
		Config: cfg,
		Only:   p.only,
		Events: events,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	rpt := report.Report{
		Results:     outcome.Results,
		Score:       outcome.Score,
		Performance: outcome.Performance,
	}

	if p.interactive {
		if err := runInteractiveReview(rpt); err != nil {
			return err
		}
		return checkGates(cfg, outcome)
	}

	out := p.stdout
	if p.output != "" {
		f, err := os.Create(p.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch p.format {
	case "json":
		err = report.WriteJSON(out, rpt)
	case "html":
		err = report.WriteHTML(out, rpt)
	default:
		err = report.WriteText(out, rpt)
	}
	if err != nil {
		return err
	}

	return checkGates(cfg, outcome)
}

// checkGates applies the CI failure conditions: strict mode fails on
// any error-severity finding, min_score fails below the floor.
func checkGates(cfg config.Config, outcome *run.Outcome) error {
	if cfg.Strict && outcome.Score.ErrorCount > 0 {
		return fmt.Errorf("strict mode: %d error-severity issue(s) found",
			outcome.Score.ErrorCount)
	}
	if cfg.MinScore > 0 && outcome.Score.TotalScore < cfg.MinScore {
		return fmt.Errorf("score %.1f below minimum %.1f",
			outcome.Score.TotalScore, cfg.MinScore)
	}
	return nil
}

func newReviewCmd() *cobra.Command {
	var (
		format      string
		output      string
		configPath  string
		only        []string
		eventsPath  string
		strict      bool
		minScore    float64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "review [paths...]",
		Short: "Review the quality of pytest test files",
		Long: `Collect test functions from the given files or directories
(default: current directory), run the static analyzers, optionally
replay a recorded execution event log through the runtime
observers, and report the findings with a weighted quality score.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{"."}
			}
			return runReview(reviewParams{
				paths:       paths,
				format:      format,
				output:      output,
				configPath:  configPath,
				only:        only,
				eventsPath:  eventsPath,
				strict:      strict,
				minScore:    minScore,
				interactive: interactive,
				stdout:      os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "text",
		"output format: text, json, or html")
	cmd.Flags().StringVarP(&output, "output", "o", "",
		"write the report to a file instead of stdout")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"config file (default: .pyreview.yml if present)")
	cmd.Flags().StringSliceVar(&only, "only", nil,
		"run only the named analyzers (comma-separated)")
	cmd.Flags().StringVar(&eventsPath, "events", "",
		"replay a recorded execution event log (JSON)")
	cmd.Flags().BoolVar(&strict, "strict", false,
		"fail when any error-severity issue is found")
	cmd.Flags().Float64Var(&minScore, "min-score", -1,
		"fail when the score is below this value (overrides config)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	var events bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for pyreview output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of pyreview review --format=json output. With --events,
print the schema for the execution event log instead. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := report.Schema
			if events {
				schema = observe.EventsSchema
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}

	cmd.Flags().BoolVar(&events, "events", false,
		"print the execution event log schema")

	return cmd
}
