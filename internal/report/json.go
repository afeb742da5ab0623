// Package report provides output formatters for review results in
// JSON, human-readable text, and HTML formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/pyreview/internal/observe"
	"github.com/unbound-force/pyreview/internal/review"
	"github.com/unbound-force/pyreview/internal/score"
)

// Report is the complete output of one review run, fed to every
// formatter.
type Report struct {
	Results     []review.Result
	Score       score.Breakdown
	Performance *observe.PerfStats
}

// JSONReport is the top-level JSON output structure.
type JSONReport struct {
	Version     string             `json:"version"`
	Score       score.Breakdown    `json:"score"`
	Results     []review.Result    `json:"results"`
	Performance *observe.PerfStats `json:"performance,omitempty"`
}

// WriteJSON writes the report as formatted JSON to the writer.
func WriteJSON(w io.Writer, r Report) error {
	results := r.Results
	if results == nil {
		results = []review.Result{}
	}
	out := JSONReport{
		Version:     "0.1.0",
		Score:       r.Score,
		Results:     results,
		Performance: r.Performance,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
