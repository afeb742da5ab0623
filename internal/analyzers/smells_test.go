package analyzers_test

import (
	"strings"
	"testing"

	"github.com/unbound-force/pyreview/internal/analyzers"
	"github.com/unbound-force/pyreview/internal/config"
)

func TestSmells_SkipDecorators(t *testing.T) {
	cases := []struct {
		name      string
		decorator string
		flagged   bool
	}{
		{"pytest_skip", "@pytest.mark.skip", true},
		{"pytest_skipif_call", "@pytest.mark.skipif(sys.platform == \"win32\", reason=\"posix only\")", true},
		{"unittest_skip", "@unittest.skip(\"broken\")", true},
		{"parametrize_not_skip", "@pytest.mark.parametrize(\"n\", [1, 2])", false},
	}

	a := analyzers.NewSmells(config.Default())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := tc.decorator + "\ndef test_decorated_behavior(n=1):\n    assert n == 1\n"
			result := a.Analyze(parseTest(t, src))
			got := hasRule(result, "smells.ignored_test")
			if got != tc.flagged {
				t.Errorf("ignored_test = %v, want %v (%v)", got, tc.flagged, ruleList(result))
			}
		})
	}
}

func TestSmells_IgnoredTestReportsDecoratorLine(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	src := "@pytest.mark.skip\ndef test_skipped_for_now():\n    assert ready()\n"

	result := a.Analyze(parseTest(t, src))

	if !hasRule(result, "smells.ignored_test") {
		t.Fatalf("expected smells.ignored_test, got %v", ruleList(result))
	}
	if got := result.Issues[0].Line; got != 1 {
		t.Errorf("issue line = %d, want decorator line 1", got)
	}
}

func TestSmells_AssertionRoulette(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_many_unexplained_assertions():
    assert user.name == "alice"
    assert user.age == 30
    assert user.active
`)

	result := a.Analyze(test)

	if !hasRule(result, "smells.assertion_roulette") {
		t.Fatalf("expected smells.assertion_roulette, got %v", ruleList(result))
	}
}

func TestSmells_MessagesSuppressRoulette(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_assertions_with_messages():
    assert user.name == "alice", "name should survive save"
    assert user.age == 30, "age should survive save"
    assert user.active
`)

	result := a.Analyze(test)

	// Only one assertion lacks a message; within the threshold.
	if hasRule(result, "smells.assertion_roulette") {
		t.Fatalf("unexpected assertion_roulette: %v", ruleList(result))
	}
}

func TestSmells_SingleAssertionNeverRoulette(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_single_assertion_without_message():
    assert compute() == 4
`)

	if result := a.Analyze(test); hasRule(result, "smells.assertion_roulette") {
		t.Fatalf("single assertion flagged: %v", ruleList(result))
	}
}

func TestSmells_DuplicateAssertions(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_repeats_same_check():
    assert items.count() == 3
    assert items.count() == 3
    assert items.count() == 3
`)

	result := a.Analyze(test)

	if got := countRule(result, "smells.duplicate_assert"); got != 1 {
		t.Fatalf("duplicate_assert fired %d times, want once (%v)", got, ruleList(result))
	}
	var found bool
	for _, issue := range result.Issues {
		if issue.Rule == "smells.duplicate_assert" {
			found = true
			if !strings.Contains(issue.Message, "2 duplicate") {
				t.Errorf("message %q should count 2 duplicates", issue.Message)
			}
			if issue.Line != 3 {
				t.Errorf("issue line = %d, want first duplicate's line 3", issue.Line)
			}
		}
	}
	if !found {
		t.Fatal("duplicate_assert issue not found")
	}
}

func TestSmells_StructurallyDifferentAssertionsAreDistinct(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_different_checks_not_duplicates():
    assert items.count() == 3
    assert items.count() == 4
`)

	if result := a.Analyze(test); hasRule(result, "smells.duplicate_assert") {
		t.Fatalf("distinct assertions flagged as duplicates: %v", ruleList(result))
	}
}

func TestSmells_EagerTest(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_exercises_whole_workflow():
    account.open()
    account.deposit(100)
    account.withdraw(30)
    statement = account.summarize()
    assert statement
`)

	result := a.Analyze(test)

	if !hasRule(result, "smells.eager_test") {
		t.Fatalf("expected smells.eager_test, got %v", ruleList(result))
	}
}

func TestSmells_BuiltinsExcludedFromEagerCount(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_builtins_are_not_behaviors():
    values = sorted(items)
    assert len(values) == 3
    assert isinstance(values[0], str)
`)

	if result := a.Analyze(test); hasRule(result, "smells.eager_test") {
		t.Fatalf("builtins counted as behaviors: %v", ruleList(result))
	}
}

func TestSmells_MagicNumbers(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	cases := []struct {
		name      string
		condition string
		flagged   bool
	}{
		{"arbitrary_int", "total == 37", true},
		{"arbitrary_float", "ratio == 0.73", true},
		{"allowed_zero", "total == 0", false},
		{"allowed_hundred", "percent == 100", false},
		{"no_literal", "total == expected", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			test := parseTest(t, "def test_magic_number_detection():\n    assert "+tc.condition+"\n")
			result := a.Analyze(test)
			got := hasRule(result, "smells.magic_number")
			if got != tc.flagged {
				t.Errorf("magic_number = %v, want %v (%v)", got, tc.flagged, ruleList(result))
			}
		})
	}
}

func TestSmells_OneMagicNumberIssuePerAssertion(t *testing.T) {
	a := analyzers.NewSmells(config.Default())
	test := parseTest(t, `def test_assertion_with_several_literals():
    assert compute(37) == 41
`)

	result := a.Analyze(test)

	if got := countRule(result, "smells.magic_number"); got != 1 {
		t.Errorf("magic_number fired %d times, want 1", got)
	}
}
