// Package run orchestrates a full review session: collect tests,
// execute the static analyzers, replay recorded execution events
// through the observers, filter ignored findings, and score the
// result.
package run

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/unbound-force/pyreview/internal/analyzers"
	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/observe"
	"github.com/unbound-force/pyreview/internal/pyparse"
	"github.com/unbound-force/pyreview/internal/review"
	"github.com/unbound-force/pyreview/internal/score"
)

// Params configures one review session.
type Params struct {
	// Paths are the files and directories to collect tests from.
	Paths []string

	// Config is the loaded (or default) configuration.
	Config config.Config

	// Only restricts the run to the named analyzers. Empty means
	// all enabled analyzers.
	Only []string

	// Events is an optional recorded execution event stream to
	// replay through the runtime observers.
	Events []observe.Event

	// Observers are extra runtime observers beyond the built-in
	// performance observer, e.g. a state observer with registered
	// cells.
	Observers []review.Observer

	// Logger receives progress and diagnostics. Nil disables
	// logging.
	Logger *charmlog.Logger
}

// Outcome is the full result of one review session.
type Outcome struct {
	Results     []review.Result
	Score       score.Breakdown
	Performance *observe.PerfStats
	TotalTests  int

	// SkippedFiles counts unreadable or unparseable files that
	// were silently excluded from collection.
	SkippedFiles int
}

// Review executes a complete session and returns the scored outcome.
func Review(p Params) (*Outcome, error) {
	logger := p.Logger
	if logger == nil {
		logger = charmlog.New(io.Discard)
	}

	collector := pyparse.NewCollector()
	tests, err := collector.Collect(p.Paths)
	if err != nil {
		return nil, fmt.Errorf("collecting tests: %w", err)
	}
	tests = filterIgnoredPaths(tests, p.Config.IgnorePaths)
	logger.Info("collected tests", "count", len(tests), "skipped_files", collector.Skipped)

	active, err := selectAnalyzers(p.Config, p.Only)
	if err != nil {
		return nil, err
	}

	var results []review.Result
	for i := range tests {
		for _, analyzer := range active {
			results = append(results, analyzeOne(analyzer, &tests[i], logger))
		}
	}

	perf := observe.NewPerf(p.Config)
	if len(p.Events) > 0 {
		observers := append([]review.Observer{perf}, p.Observers...)
		if err := observe.Replay(p.Events, observers...); err != nil {
			return nil, fmt.Errorf("replaying events: %w", err)
		}
		results = append(results, perf.Results()...)
		for _, obs := range p.Observers {
			results = append(results, obs.Results()...)
		}
	}

	results = filterIgnoredRules(results, p.Config.IgnoreRules)

	outcome := &Outcome{
		Results:      results,
		Score:        score.NewEngine().Calculate(results, len(tests)),
		TotalTests:   len(tests),
		SkippedFiles: collector.Skipped,
	}
	if len(p.Events) > 0 {
		stats := perf.Stats()
		outcome.Performance = &stats
	}
	logger.Info("review complete",
		"tests", outcome.TotalTests,
		"issues", outcome.Score.TotalIssues,
		"score", fmt.Sprintf("%.1f", outcome.Score.TotalScore))
	return outcome, nil
}

// analyzeOne runs a single analyzer against a single test. A
// panicking analyzer is contained: the test is charged no issues for
// it and the run continues.
func analyzeOne(analyzer review.Analyzer, test *review.TestItem, logger *charmlog.Logger) (result review.Result) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("analyzer panicked",
				"analyzer", analyzer.Name(),
				"test", test.FullName(),
				"panic", r)
			result = review.NewResult(analyzer.Name())
		}
	}()
	return analyzer.Analyze(test)
}

// selectAnalyzers builds the analyzer set, optionally restricted to
// the names in only. Unknown names are an error.
func selectAnalyzers(cfg config.Config, only []string) ([]review.Analyzer, error) {
	all := analyzers.All(cfg)
	if len(only) == 0 {
		return all, nil
	}
	byName := map[string]review.Analyzer{}
	for _, a := range all {
		byName[a.Name()] = a
	}
	var selected []review.Analyzer
	for _, name := range only {
		a, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown or disabled analyzer %q", name)
		}
		selected = append(selected, a)
	}
	return selected, nil
}

// filterIgnoredPaths drops tests whose file matches any ignore
// pattern. Patterns match the full path, the base name, or as a
// plain substring.
func filterIgnoredPaths(tests []review.TestItem, patterns []string) []review.TestItem {
	if len(patterns) == 0 {
		return tests
	}
	kept := tests[:0]
	for _, test := range tests {
		if !pathIgnored(test.FilePath, patterns) {
			kept = append(kept, test)
		}
	}
	return kept
}

func pathIgnored(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

// filterIgnoredRules strips issues whose rule id matches an ignore
// entry. Entries match the full dotted id or the whole namespace
// ("patterns" ignores every patterns.* rule).
func filterIgnoredRules(results []review.Result, rules []string) []review.Result {
	if len(rules) == 0 {
		return results
	}
	ignored := map[string]bool{}
	for _, rule := range rules {
		ignored[rule] = true
	}
	for i := range results {
		kept := results[i].Issues[:0]
		for _, issue := range results[i].Issues {
			namespace, _, _ := strings.Cut(issue.Rule, ".")
			if ignored[issue.Rule] || ignored[namespace] {
				continue
			}
			kept = append(kept, issue)
		}
		results[i].Issues = kept
	}
	return results
}
