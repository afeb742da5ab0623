package analyzers_test

import (
	"testing"

	"github.com/unbound-force/pyreview/internal/analyzers"
	"github.com/unbound-force/pyreview/internal/config"
)

func TestAssertions_Missing(t *testing.T) {
	a := analyzers.NewAssertions(config.Default())
	test := parseTest(t, `def test_nothing_verified():
    value = compute()
    value.process()
`)

	result := a.Analyze(test)

	if !hasRule(result, "assertions.missing") {
		t.Fatalf("expected assertions.missing, got %v", ruleList(result))
	}
	issue := result.Issues[0]
	if issue.Line != test.Line {
		t.Errorf("missing-assertion issue line = %d, want function line %d", issue.Line, test.Line)
	}
	if got := result.Metadata["assertion_count"]; got != 0 {
		t.Errorf("assertion_count = %v, want 0", got)
	}
}

func TestAssertions_CountsPytestHelpers(t *testing.T) {
	a := analyzers.NewAssertions(config.Default())
	test := parseTest(t, `def test_raises_counts_as_assertion():
    with pytest.raises(ValueError):
        parse("bogus")
`)

	result := a.Analyze(test)

	if hasRule(result, "assertions.missing") {
		t.Fatalf("pytest.raises should count as an assertion, got %v", ruleList(result))
	}
	if got := result.Metadata["assertion_count"]; got != 1 {
		t.Errorf("assertion_count = %v, want 1", got)
	}
}

func TestAssertions_Insufficient(t *testing.T) {
	cfg := config.Default()
	cfg.Analyzers = map[string]config.AnalyzerConfig{
		"assertions": {Enabled: true, Options: map[string]any{"min_assertions": 2}},
	}
	a := analyzers.NewAssertions(cfg)
	test := parseTest(t, `def test_single_assertion_below_minimum():
    assert compute() == 4
`)

	result := a.Analyze(test)

	if !hasRule(result, "assertions.insufficient") {
		t.Fatalf("expected assertions.insufficient, got %v", ruleList(result))
	}
	if hasRule(result, "assertions.missing") {
		t.Error("insufficient and missing must not both fire")
	}
}

func TestAssertions_Trivial(t *testing.T) {
	cases := []struct {
		name      string
		condition string
		trivial   bool
	}{
		{"assert_true", "True", true},
		{"assert_false", "False", true},
		{"truthy_int", "1", true},
		{"truthy_string", `"always"`, true},
		{"negated_constant", "not False", true},
		{"self_comparison", "x == x", true},
		{"real_comparison", "x == y", false},
		{"name_condition", "flag", false},
		{"falsy_zero_not_trivial", "0", false},
	}

	a := analyzers.NewAssertions(config.Default())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test := parseTest(t, "def test_condition_quality():\n    assert "+tc.condition+"\n")
			result := a.Analyze(test)
			got := hasRule(result, "assertions.trivial")
			if got != tc.trivial {
				t.Errorf("assert %s: trivial = %v, want %v (%v)",
					tc.condition, got, tc.trivial, ruleList(result))
			}
		})
	}
}

func TestAssertions_TrivialPerOccurrence(t *testing.T) {
	a := analyzers.NewAssertions(config.Default())
	test := parseTest(t, `def test_multiple_trivial_assertions():
    assert True
    assert True
    assert result == expected
`)

	result := a.Analyze(test)

	if got := countRule(result, "assertions.trivial"); got != 2 {
		t.Errorf("trivial count = %d, want 2", got)
	}
	if got := result.Metadata["trivial_count"]; got != 2 {
		t.Errorf("trivial_count metadata = %v, want 2", got)
	}
	if hasRule(result, "assertions.missing") {
		t.Error("three assertions present, missing must not fire")
	}
}
