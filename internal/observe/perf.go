// Package observe implements the runtime side of the review: two
// observers fed start/end events during (or replayed after) a test
// run. Observers carry mutable state scoped to one sequential
// execution session and assume strict start→end alternation per
// test.
package observe

import (
	"fmt"
	"time"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/review"
)

// PerfStats summarizes execution times across the whole run.
type PerfStats struct {
	TotalMS       float64 `json:"total_ms"`
	AvgMS         float64 `json:"avg_ms"`
	MinMS         float64 `json:"min_ms"`
	MaxMS         float64 `json:"max_ms"`
	SlowCount     int     `json:"slow_count"`
	VerySlowCount int     `json:"very_slow_count"`
}

// Perf is the execution-time observer. It records per-test
// durations and synthesizes an issue when a threshold is crossed.
type Perf struct {
	slowMS     float64
	verySlowMS float64

	durations map[string]float64
	order     []string
	results   []review.Result
}

// NewPerf builds the observer from its config block.
func NewPerf(cfg config.Config) *Perf {
	ac := cfg.Analyzer("performance")
	return &Perf{
		slowMS:     ac.FloatOption("slow_threshold_ms", 500),
		verySlowMS: ac.FloatOption("very_slow_threshold_ms", 2000),
		durations:  map[string]float64{},
	}
}

// Name implements review.Observer.
func (p *Perf) Name() string { return "performance" }

// OnTestStart implements review.Observer. Duration arrives on the
// end event, so there is nothing to record here.
func (p *Perf) OnTestStart(testName string) {}

// OnTestEnd implements review.Observer.
func (p *Perf) OnTestEnd(testName string, passed bool, duration time.Duration) {
	ms := float64(duration) / float64(time.Millisecond)
	if _, known := p.durations[testName]; !known {
		p.order = append(p.order, testName)
	}
	p.durations[testName] = ms

	result := review.NewResult(p.Name())
	result.Metadata["duration_ms"] = ms

	switch {
	case ms >= p.verySlowMS:
		result.AddIssue(review.Issue{
			Rule: "performance.very_slow",
			Message: fmt.Sprintf("Test is very slow: %.0fms (threshold: %.0fms)",
				ms, p.verySlowMS),
			Severity:   review.Warning,
			TestName:   testName,
			Suggestion: "Consider optimizing or mocking slow operations",
		})
	case ms >= p.slowMS:
		result.AddIssue(review.Issue{
			Rule: "performance.slow",
			Message: fmt.Sprintf("Test is slow: %.0fms (threshold: %.0fms)",
				ms, p.slowMS),
			Severity:   review.Info,
			TestName:   testName,
			Suggestion: "Consider if this test can be optimized",
		})
	}

	if len(result.Issues) > 0 {
		p.results = append(p.results, result)
	}
}

// Results implements review.Observer: one result per test that
// crossed a threshold, in completion order.
func (p *Perf) Results() []review.Result {
	return p.results
}

// Stats returns run-wide duration statistics. It is a separate
// query from Results and contributes nothing to scoring.
func (p *Perf) Stats() PerfStats {
	if len(p.durations) == 0 {
		return PerfStats{}
	}
	stats := PerfStats{}
	first := true
	for _, name := range p.order {
		ms := p.durations[name]
		stats.TotalMS += ms
		if first || ms < stats.MinMS {
			stats.MinMS = ms
		}
		if first || ms > stats.MaxMS {
			stats.MaxMS = ms
		}
		first = false
		if ms >= p.slowMS {
			stats.SlowCount++
		}
		if ms >= p.verySlowMS {
			stats.VerySlowCount++
		}
	}
	stats.AvgMS = stats.TotalMS / float64(len(p.durations))
	return stats
}
