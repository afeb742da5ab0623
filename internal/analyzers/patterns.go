package analyzers

import (
	"fmt"
	"strings"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// suspiciousPathFragments mark string literals that look like
// machine-specific absolute paths.
var suspiciousPathFragments = []string{
	"/home/", "/users/", "/tmp/", "/var/", "/etc/",
}

// Patterns detects common anti-patterns: bare excepts, swallowed
// exceptions, sleeps, prints, raw open() calls, os.system, hardcoded
// paths, legacy mock imports, and identity comparison with literals.
// All checks are independent; one line may trigger several rules.
type Patterns struct{}

// NewPatterns builds the analyzer. It has no options.
func NewPatterns(cfg config.Config) *Patterns {
	_ = cfg.Analyzer("patterns")
	return &Patterns{}
}

// Name implements review.Analyzer.
func (a *Patterns) Name() string { return "patterns" }

// Analyze implements review.Analyzer.
func (a *Patterns) Analyze(test *review.TestItem) review.Result {
	result := review.NewResult(a.Name())
	count := 0

	add := func(line int, rule, message string, severity review.Severity, suggestion string) {
		count++
		result.AddIssue(review.Issue{
			Rule:       rule,
			Message:    message,
			Severity:   severity,
			FilePath:   test.FilePath,
			Line:       line,
			TestName:   test.Name,
			Suggestion: suggestion,
		})
	}

	pyast.Inspect(test.Node, func(n pyast.Node) {
		switch v := n.(type) {
		case *pyast.ExceptHandler:
			if v.Type == nil {
				add(v.Line, "patterns.bare_except",
					"Bare 'except:' clause catches all exceptions including KeyboardInterrupt",
					review.Warning,
					"Specify the exception type, e.g., 'except Exception:'")
			}
			if name, ok := v.Type.(*pyast.Name); ok && name.ID == "Exception" {
				if len(v.Body) == 1 {
					if _, isPass := v.Body[0].(*pyast.Pass); isPass {
						add(v.Line, "patterns.swallowed_exception",
							"Exception is caught and silently ignored",
							review.Warning,
							"Log the exception or re-raise if appropriate")
					}
				}
			}

		case *pyast.Call:
			switch fn := v.Func.(type) {
			case *pyast.Attribute:
				base, _ := fn.Value.(*pyast.Name)
				if fn.Attr == "sleep" && base != nil && base.ID == "time" {
					add(v.Line, "patterns.sleep_in_test",
						"time.sleep() in test makes it slow and potentially flaky",
						review.Warning,
						"Use mocking or async patterns instead of sleeping")
				}
				if base != nil && base.ID == "os" && fn.Attr == "system" {
					add(v.Line, "patterns.os_system",
						"os.system() is deprecated, use subprocess module",
						review.Info,
						"Use subprocess.run() for better control and security")
				}
			case *pyast.Name:
				switch fn.ID {
				case "print":
					add(v.Line, "patterns.print_statement",
						"print() statement in test - use logging or assertions instead",
						review.Info,
						"Remove print or use proper logging/capfd fixture")
				case "open":
					// Deliberately naive: fires whether or not the
					// call already sits inside a with block.
					add(v.Line, "patterns.open_without_context",
						"open() should be used with a context manager (with statement)",
						review.Info,
						"Use 'with open(...) as f:' to ensure file is properly closed")
				}
			}

		case *pyast.Const:
			if v.Kind == pyast.ConstStr {
				checkHardcodedPath(v, add)
			}

		case *pyast.Import:
			for _, name := range v.Names {
				if name == "mock" {
					add(v.Line, "patterns.legacy_mock",
						"Using 'import mock' - prefer unittest.mock (built-in since Python 3.3)",
						review.Info,
						"Use 'from unittest.mock import Mock, patch' instead")
				}
			}

		case *pyast.ImportFrom:
			if v.Module == "mock" {
				add(v.Line, "patterns.legacy_mock",
					"Using 'from mock import' - prefer unittest.mock",
					review.Info,
					"Use 'from unittest.mock import ...' instead")
			}

		case *pyast.Compare:
			checkIsLiteral(v, add)
		}
	})

	result.Metadata["pattern_issues"] = count
	return result
}

type addFunc func(line int, rule, message string, severity review.Severity, suggestion string)

// checkHardcodedPath flags string literals that look like absolute
// Unix paths in well-known user directories, or Windows drive paths.
func checkHardcodedPath(c *pyast.Const, add addFunc) {
	value := c.Value
	if strings.HasPrefix(value, "/") && len(value) > 5 && strings.Contains(value[1:], "/") {
		lower := strings.ToLower(value)
		for _, fragment := range suspiciousPathFragments {
			if strings.Contains(lower, fragment) {
				display := value
				if len(display) > 50 {
					display = display[:50] + "..."
				}
				add(c.Line, "patterns.hardcoded_path",
					fmt.Sprintf("Hardcoded absolute path: '%s'", display),
					review.Warning,
					"Use tmp_path fixture or pathlib for cross-platform paths")
				return
			}
		}
		return
	}
	if len(value) > 3 && value[1:3] == `:\` {
		add(c.Line, "patterns.hardcoded_path",
			"Hardcoded Windows path detected",
			review.Warning,
			"Use tmp_path fixture or pathlib for cross-platform paths")
	}
}

// checkIsLiteral flags identity comparison against numeric or
// string literals. True/False/None are legitimate identity targets.
// Reported at most once per comparison expression.
func checkIsLiteral(cmp *pyast.Compare, add addFunc) {
	for i, op := range cmp.Ops {
		if op != pyast.OpIs && op != pyast.OpIsNot {
			continue
		}
		left := cmp.Left
		if i > 0 {
			left = cmp.Comparators[i-1]
		}
		var right pyast.Expr
		if i < len(cmp.Comparators) {
			right = cmp.Comparators[i]
		}
		for _, operand := range []pyast.Expr{left, right} {
			c, ok := operand.(*pyast.Const)
			if !ok {
				continue
			}
			switch c.Kind {
			case pyast.ConstInt, pyast.ConstFloat, pyast.ConstStr:
				add(cmp.Line, "patterns.is_literal",
					"Using 'is' with literal value - use '==' instead",
					review.Warning,
					"'is' compares identity, not equality; use '==' for value comparison")
				return
			}
		}
	}
}
