package analyzers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// allowedMagicNumbers are numeric literal values acceptable inside
// assertions.
var allowedMagicNumbers = map[float64]bool{
	0: true, 1: true, -1: true, 2: true, 100: true, 1000: true,
}

// skipDecorators are the pytest and legacy unittest spellings of a
// skip marker.
var skipDecorators = map[string]bool{
	"skip":                true,
	"skipif":              true,
	"pytest.mark.skip":    true,
	"pytest.mark.skipif":  true,
	"unittest.skip":       true,
	"unittest.skipIf":     true,
	"unittest.skipUnless": true,
}

// eagerTestExclusions are built-ins and assertion helper names that
// do not count as distinct behaviors under test.
var eagerTestExclusions = map[string]bool{
	"len": true, "str": true, "int": true, "float": true,
	"list": true, "dict": true, "set": true, "tuple": true,
	"isinstance": true, "hasattr": true, "getattr": true,
	"type": true, "id": true, "repr": true, "sorted": true,
	"reversed": true, "enumerate": true, "zip": true, "map": true,
	"filter": true, "any": true, "all": true, "sum": true,
	"min": true, "max": true, "abs": true, "round": true,
	"assertTrue": true, "assertFalse": true, "assertEqual": true,
	"assertNotEqual": true, "assertIn": true, "assertNotIn": true,
	"assertIs": true, "assertIsNot": true, "assertIsNone": true,
	"assertIsNotNone": true, "assertRaises": true,
}

// Smells detects structural test smells: assertion roulette,
// duplicate assertions, skipped tests, eager tests, and magic
// numbers in assertions.
type Smells struct {
	maxAssertionsWithoutMessage int
	checkMagicNumbers           bool
	checkEagerTest              bool
}

// NewSmells builds the analyzer from its config block.
func NewSmells(cfg config.Config) *Smells {
	ac := cfg.Analyzer("smells")
	return &Smells{
		maxAssertionsWithoutMessage: ac.IntOption("max_assertions_without_message", 1),
		checkMagicNumbers:           ac.BoolOption("check_magic_numbers", true),
		checkEagerTest:              ac.BoolOption("check_eager_test", true),
	}
}

// Name implements review.Analyzer.
func (a *Smells) Name() string { return "smells" }

// collectedAssert records one assertion for the finalize checks.
type collectedAssert struct {
	line    int
	dump    string // structural dump of the condition
	message bool   // has an explicit message
}

// Analyze implements review.Analyzer.
func (a *Smells) Analyze(test *review.TestItem) review.Result {
	result := review.NewResult(a.Name())

	var asserts []collectedAssert
	callTargets := map[string]bool{}

	// Skip markers are carried as decorators on the function.
	for _, dec := range test.Node.Decorators {
		name := decoratorName(dec)
		if skipDecorators[name] {
			result.AddIssue(review.Issue{
				Rule:       "smells.ignored_test",
				Message:    fmt.Sprintf("Test is skipped with @%s", name),
				Severity:   review.Warning,
				FilePath:   test.FilePath,
				Line:       dec.Pos(),
				TestName:   test.Name,
				Suggestion: "Ensure skipped tests are tracked and re-enabled when ready",
			})
		}
	}

	pyast.Inspect(test.Node, func(n pyast.Node) {
		switch v := n.(type) {
		case *pyast.Assert:
			asserts = append(asserts, collectedAssert{
				line:    v.Line,
				dump:    pyast.Dump(v.Test),
				message: v.Msg != nil,
			})
			if a.checkMagicNumbers {
				a.checkMagicNumber(v, test, &result)
			}
		case *pyast.Call:
			if !a.checkEagerTest {
				return
			}
			switch fn := v.Func.(type) {
			case *pyast.Name:
				callTargets[fn.ID] = true
			case *pyast.Attribute:
				callTargets[fn.Attr] = true
			}
		}
	})

	a.checkAssertionRoulette(asserts, test, &result)
	a.checkDuplicateAssertions(asserts, test, &result)
	if a.checkEagerTest {
		a.checkEager(callTargets, test, &result)
	}

	return result
}

// checkMagicNumber reports the first numeric literal outside the
// allow-list found in the assertion's condition. At most one issue
// per assertion.
func (a *Smells) checkMagicNumber(node *pyast.Assert, test *review.TestItem, result *review.Result) {
	found := false
	pyast.Walk(node.Test, func(n pyast.Node) bool {
		if found {
			return false
		}
		c, ok := n.(*pyast.Const)
		if !ok {
			return true
		}
		value, isNum := c.Number()
		if !isNum || allowedMagicNumbers[value] {
			return true
		}
		found = true
		result.AddIssue(review.Issue{
			Rule:       "smells.magic_number",
			Message:    fmt.Sprintf("Magic number %s in assertion", c.Value),
			Severity:   review.Info,
			FilePath:   test.FilePath,
			Line:       c.Line,
			TestName:   test.Name,
			Suggestion: "Use a named constant or variable for clarity",
		})
		return false
	})
}

func (a *Smells) checkAssertionRoulette(asserts []collectedAssert, test *review.TestItem, result *review.Result) {
	if len(asserts) <= 1 {
		return
	}
	withoutMessage := 0
	for _, as := range asserts {
		if !as.message {
			withoutMessage++
		}
	}
	if withoutMessage > a.maxAssertionsWithoutMessage {
		result.AddIssue(review.Issue{
			Rule: "smells.assertion_roulette",
			Message: fmt.Sprintf("Test has %d assertions without messages (threshold: %d)",
				withoutMessage, a.maxAssertionsWithoutMessage),
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   test.Name,
			Suggestion: "Add descriptive messages to assertions: assert x == y, 'expected x to equal y'",
		})
	}
}

func (a *Smells) checkDuplicateAssertions(asserts []collectedAssert, test *review.TestItem, result *review.Result) {
	seen := map[string]bool{}
	var duplicates []collectedAssert
	for _, as := range asserts {
		if seen[as.dump] {
			duplicates = append(duplicates, as)
		} else {
			seen[as.dump] = true
		}
	}
	if len(duplicates) == 0 {
		return
	}
	result.AddIssue(review.Issue{
		Rule:       "smells.duplicate_assert",
		Message:    fmt.Sprintf("Test has %d duplicate assertion(s)", len(duplicates)),
		Severity:   review.Warning,
		FilePath:   test.FilePath,
		Line:       duplicates[0].line,
		TestName:   test.Name,
		Suggestion: "Remove duplicates or verify they test different scenarios",
	})
}

func (a *Smells) checkEager(callTargets map[string]bool, test *review.TestItem, result *review.Result) {
	var distinct []string
	for name := range callTargets {
		if !eagerTestExclusions[name] {
			distinct = append(distinct, name)
		}
	}
	if len(distinct) <= 2 {
		return
	}
	sort.Strings(distinct)
	shown := distinct
	ellipsis := ""
	if len(shown) > 5 {
		shown = shown[:5]
		ellipsis = "..."
	}
	result.AddIssue(review.Issue{
		Rule: "smells.eager_test",
		Message: fmt.Sprintf("Test calls %d distinct methods: %s%s",
			len(distinct), strings.Join(shown, ", "), ellipsis),
		Severity:   review.Info,
		FilePath:   test.FilePath,
		Line:       test.Line,
		TestName:   test.Name,
		Suggestion: "Consider splitting into focused tests for each behavior",
	})
}

// decoratorName flattens a decorator expression to its dotted name.
// Calls resolve to the name of the callee (skipif(...) -> skipif).
func decoratorName(dec pyast.Expr) string {
	switch v := dec.(type) {
	case *pyast.Name:
		return v.ID
	case *pyast.Attribute:
		parts := []string{v.Attr}
		cur := v.Value
		for {
			if attr, ok := cur.(*pyast.Attribute); ok {
				parts = append(parts, attr.Attr)
				cur = attr.Value
				continue
			}
			if name, ok := cur.(*pyast.Name); ok {
				parts = append(parts, name.ID)
			}
			break
		}
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
		return strings.Join(parts, ".")
	case *pyast.Call:
		return decoratorName(v.Func)
	default:
		return ""
	}
}
