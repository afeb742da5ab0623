package analyzers

import (
	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/review"
)

// All constructs every built-in static analyzer that the
// configuration enables, in the canonical run order.
func All(cfg config.Config) []review.Analyzer {
	candidates := []review.Analyzer{
		NewAssertions(cfg),
		NewNaming(cfg),
		NewComplexity(cfg),
		NewPatterns(cfg),
		NewIsolation(cfg),
		NewSmells(cfg),
	}
	enabled := make([]review.Analyzer, 0, len(candidates))
	for _, a := range candidates {
		if cfg.AnalyzerEnabled(a.Name()) {
			enabled = append(enabled, a)
		}
	}
	return enabled
}
