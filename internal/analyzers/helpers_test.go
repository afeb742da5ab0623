package analyzers_test

import (
	"testing"

	"github.com/unbound-force/pyreview/internal/pyparse"
	"github.com/unbound-force/pyreview/internal/review"
)

// parseTest builds a TestItem from a Python snippet containing one
// (possibly decorated) test function.
func parseTest(t *testing.T, src string) *review.TestItem {
	t.Helper()
	fn, err := pyparse.ParseFunction(src)
	if err != nil {
		t.Fatalf("parsing snippet: %v\n%s", err, src)
	}
	return &review.TestItem{
		Name:     fn.Name,
		FilePath: "test_sample.py",
		Line:     fn.Line,
		Node:     fn,
		Source:   src,
	}
}

// countRule returns how many issues in the result carry the rule id.
func countRule(result review.Result, rule string) int {
	n := 0
	for _, issue := range result.Issues {
		if issue.Rule == rule {
			n++
		}
	}
	return n
}

// hasRule reports whether any issue carries the rule id.
func hasRule(result review.Result, rule string) bool {
	return countRule(result, rule) > 0
}

// ruleList extracts the rule ids of all issues, in order.
func ruleList(result review.Result) []string {
	rules := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		rules = append(rules, issue.Rule)
	}
	return rules
}
