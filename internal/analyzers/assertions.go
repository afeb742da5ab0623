// Package analyzers implements the static rule engines that inspect
// one test's syntax tree at a time. Each analyzer freezes its
// thresholds from configuration at construction and is a pure
// function of the immutable test descriptor afterward.
package analyzers

import (
	"fmt"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// assertionHelpers are the pytest helper forms counted as
// assertions whether or not they are used as context managers.
var assertionHelpers = map[string]bool{
	"raises": true,
	"warns":  true,
	"approx": true,
}

// Assertions checks for missing, insufficient, and trivial
// assertions.
type Assertions struct {
	minAssertions int
}

// NewAssertions builds the analyzer from its config block.
func NewAssertions(cfg config.Config) *Assertions {
	ac := cfg.Analyzer("assertions")
	min := ac.IntOption("min_assertions", 1)
	if min < 1 {
		min = 1
	}
	return &Assertions{minAssertions: min}
}

// Name implements review.Analyzer.
func (a *Assertions) Name() string { return "assertions" }

// trivialAssert is one detected trivial assertion.
type trivialAssert struct {
	line   int
	reason string
}

// Analyze implements review.Analyzer.
func (a *Assertions) Analyze(test *review.TestItem) review.Result {
	result := review.NewResult(a.Name())

	var (
		assertCount int
		helperCount int
		trivials    []trivialAssert
	)

	pyast.Inspect(test.Node, func(n pyast.Node) {
		switch v := n.(type) {
		case *pyast.Assert:
			assertCount++
			if reason, ok := trivialReason(v.Test); ok {
				trivials = append(trivials, trivialAssert{line: v.Line, reason: reason})
			}
		case *pyast.Call:
			if attr, ok := v.Func.(*pyast.Attribute); ok {
				if base, ok := attr.Value.(*pyast.Name); ok && base.ID == "pytest" && assertionHelpers[attr.Attr] {
					helperCount++
				}
			}
		}
	})

	total := assertCount + helperCount

	switch {
	case total == 0:
		result.AddIssue(review.Issue{
			Rule:       "assertions.missing",
			Message:    "Test has no assertions",
			Severity:   review.Error,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   test.Name,
			Suggestion: "Add at least one assertion to verify expected behavior",
		})
	case total < a.minAssertions:
		result.AddIssue(review.Issue{
			Rule: "assertions.insufficient",
			Message: fmt.Sprintf("Test has only %d assertion(s), minimum is %d",
				total, a.minAssertions),
			Severity: review.Warning,
			FilePath: test.FilePath,
			Line:     test.Line,
			TestName: test.Name,
		})
	}

	for _, t := range trivials {
		result.AddIssue(review.Issue{
			Rule:       "assertions.trivial",
			Message:    "Trivial assertion: " + t.reason,
			Severity:   review.Error,
			FilePath:   test.FilePath,
			Line:       t.line,
			TestName:   test.Name,
			Suggestion: "Replace with a meaningful assertion that tests actual behavior",
		})
	}

	result.Metadata["assertion_count"] = total
	result.Metadata["trivial_count"] = len(trivials)
	return result
}

// trivialReason classifies an assert condition that can never fail
// meaningfully: a constant condition, a negated constant, or a
// comparison of an expression against a structurally identical copy
// of itself.
func trivialReason(test pyast.Expr) (string, bool) {
	switch v := test.(type) {
	case *pyast.Const:
		switch v.Kind {
		case pyast.ConstTrue:
			return "assert True", true
		case pyast.ConstFalse:
			return "assert False", true
		default:
			if truthy, known := v.Truthy(); known && truthy {
				return fmt.Sprintf("assert %s (always truthy)", constRepr(v)), true
			}
		}
	case *pyast.UnaryOp:
		// assert not False, assert not 0, ...
		if v.Op == "not" {
			if c, ok := v.Operand.(*pyast.Const); ok {
				if _, known := c.Truthy(); known {
					return fmt.Sprintf("constant condition 'not %s'", constRepr(c)), true
				}
			}
		}
	case *pyast.Compare:
		if len(v.Ops) == 1 && v.Ops[0] == pyast.OpEq {
			if pyast.Dump(v.Left) == pyast.Dump(v.Comparators[0]) {
				return "comparing value to itself", true
			}
		}
	}
	return "", false
}

// constRepr renders a constant roughly the way it was written.
func constRepr(c *pyast.Const) string {
	switch c.Kind {
	case pyast.ConstTrue:
		return "True"
	case pyast.ConstFalse:
		return "False"
	case pyast.ConstNone:
		return "None"
	case pyast.ConstStr:
		return fmt.Sprintf("%q", c.Value)
	default:
		return c.Value
	}
}
