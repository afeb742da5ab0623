package analyzers_test

import (
	"testing"

	"github.com/unbound-force/pyreview/internal/analyzers"
	"github.com/unbound-force/pyreview/internal/config"
)

func TestNaming_RuleMatrix(t *testing.T) {
	cases := []struct {
		name    string
		present []string
		absent  []string
	}{
		{
			name:    "test_1",
			present: []string{"naming.non_descriptive", "naming.too_short"},
		},
		{
			name:    "test_foo",
			present: []string{"naming.non_descriptive", "naming.too_short"},
		},
		{
			name:    "testSomethingImportantHappens",
			present: []string{"naming.not_snake_case"},
			absent:  []string{"naming.too_short"},
		},
		{
			name:    "test_x",
			present: []string{"naming.non_descriptive", "naming.too_short", "naming.unclear_abbreviation"},
		},
		{
			name:    "test_usr_cfg_handling",
			absent:  []string{"naming.unclear_abbreviation", "naming.non_descriptive"},
			present: nil,
		},
		{
			name:   "test_user_can_login_with_valid_credentials",
			absent: []string{"naming.non_descriptive", "naming.too_short", "naming.not_snake_case", "naming.unclear_abbreviation"},
		},
		{
			name:    "test_db_id_is_stable_between_runs",
			absent:  []string{"naming.unclear_abbreviation"},
			present: nil,
		},
	}

	a := analyzers.NewNaming(config.Default())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test := parseTest(t, "def "+tc.name+"():\n    assert compute() == 4\n")
			result := a.Analyze(test)
			for _, rule := range tc.present {
				if !hasRule(result, rule) {
					t.Errorf("%s: expected %s, got %v", tc.name, rule, ruleList(result))
				}
			}
			for _, rule := range tc.absent {
				if hasRule(result, rule) {
					t.Errorf("%s: unexpected %s", tc.name, rule)
				}
			}
		})
	}
}

func TestNaming_ChecksAreIndependent(t *testing.T) {
	a := analyzers.NewNaming(config.Default())
	test := parseTest(t, "def test_q():\n    assert ok\n")

	result := a.Analyze(test)

	// One name can violate several rules at once.
	for _, rule := range []string{"naming.non_descriptive", "naming.too_short", "naming.unclear_abbreviation"} {
		if !hasRule(result, rule) {
			t.Errorf("expected %s, got %v", rule, ruleList(result))
		}
	}
}

func TestNaming_DocstringGate(t *testing.T) {
	src := "def test_behaves_as_documented_without_docstring():\n    assert compute() == 4\n"

	defaultCfg := analyzers.NewNaming(config.Default())
	if result := defaultCfg.Analyze(parseTest(t, src)); hasRule(result, "naming.missing_docstring") {
		t.Error("docstring check must be off by default")
	}

	cfg := config.Default()
	cfg.Analyzers = map[string]config.AnalyzerConfig{
		"naming": {Enabled: true, Options: map[string]any{"require_docstring": true}},
	}
	required := analyzers.NewNaming(cfg)
	if result := required.Analyze(parseTest(t, src)); !hasRule(result, "naming.missing_docstring") {
		t.Error("expected naming.missing_docstring when required")
	}

	documented := "def test_behaves_as_documented_with_docstring():\n    \"\"\"Verifies compute returns four.\"\"\"\n    assert compute() == 4\n"
	if result := required.Analyze(parseTest(t, documented)); hasRule(result, "naming.missing_docstring") {
		t.Error("docstring present, check must not fire")
	}
}

func TestNaming_TooShortMeasuresStrippedName(t *testing.T) {
	a := analyzers.NewNaming(config.Default())
	// "login_ok" is 8 chars after stripping the test_ prefix.
	test := parseTest(t, "def test_login_ok():\n    assert ok\n")

	result := a.Analyze(test)

	if !hasRule(result, "naming.too_short") {
		t.Fatalf("expected naming.too_short, got %v", ruleList(result))
	}
}
