package analyzers

import (
	"fmt"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// Complexity measures statement count, nesting depth, and
// cyclomatic complexity in one traversal, then applies three
// independent threshold checks.
type Complexity struct {
	maxStatements int
	maxDepth      int
	maxComplexity int
}

// NewComplexity builds the analyzer from its config block.
func NewComplexity(cfg config.Config) *Complexity {
	ac := cfg.Analyzer("complexity")
	return &Complexity{
		maxStatements: ac.IntOption("max_statements", 20),
		maxDepth:      ac.IntOption("max_depth", 3),
		maxComplexity: ac.IntOption("max_complexity", 5),
	}
}

// Name implements review.Analyzer.
func (a *Complexity) Name() string { return "complexity" }

// complexityCounter accumulates the three metrics during a manual
// traversal. Depth tracking needs explicit enter/exit, so it does
// not use the generic walker.
type complexityCounter struct {
	statements int
	maxDepth   int
	cyclomatic int
	depth      int
}

func (c *complexityCounter) enter() {
	c.depth++
	if c.depth > c.maxDepth {
		c.maxDepth = c.depth
	}
}

func (c *complexityCounter) exit() {
	c.depth--
}

func (c *complexityCounter) visit(n pyast.Node) {
	if n == nil {
		return
	}

	switch v := n.(type) {
	case *pyast.Assign, *pyast.AugAssign, *pyast.ExprStmt, *pyast.Assert,
		*pyast.Return, *pyast.Raise, *pyast.Pass, *pyast.Break,
		*pyast.Continue, *pyast.Import, *pyast.ImportFrom:
		c.statements++
		c.visitChildren(n)

	case *pyast.If:
		c.statements++
		c.cyclomatic++
		// A chained elif sits in Orelse as a nested If: it scores
		// once here and once again when visited itself.
		for _, s := range v.Orelse {
			if _, ok := s.(*pyast.If); ok {
				c.cyclomatic++
			}
		}
		c.enter()
		c.visitChildren(n)
		c.exit()

	case *pyast.For:
		c.statements++
		c.cyclomatic++
		c.enter()
		c.visitChildren(n)
		c.exit()

	case *pyast.While:
		c.statements++
		c.cyclomatic++
		c.enter()
		c.visitChildren(n)
		c.exit()

	case *pyast.With:
		c.statements++
		c.enter()
		c.visitChildren(n)
		c.exit()

	case *pyast.Try:
		c.statements++
		c.enter()
		c.visitChildren(n)
		c.exit()

	case *pyast.ExceptHandler:
		c.cyclomatic++
		c.enter()
		c.visitChildren(n)
		c.exit()

	case *pyast.BoolOp:
		// Each and/or adds a decision point.
		c.cyclomatic += len(v.Values) - 1
		c.visitChildren(n)

	case *pyast.IfExp:
		c.cyclomatic++
		c.visitChildren(n)

	case *pyast.Comp:
		// Comprehensions count as statements but do not nest
		// scope. Generator expressions only add decision points.
		if v.Kind != pyast.GenExp {
			c.statements++
		}
		for _, g := range v.Generators {
			c.cyclomatic++
			c.cyclomatic += len(g.Ifs)
		}
		c.visitChildren(n)

	default:
		c.visitChildren(n)
	}
}

func (c *complexityCounter) visitChildren(n pyast.Node) {
	for _, kid := range pyast.Children(n) {
		c.visit(kid)
	}
}

// Analyze implements review.Analyzer.
func (a *Complexity) Analyze(test *review.TestItem) review.Result {
	result := review.NewResult(a.Name())

	counter := &complexityCounter{cyclomatic: 1}
	counter.visitChildren(test.Node)

	if counter.statements > a.maxStatements {
		result.AddIssue(review.Issue{
			Rule: "complexity.too_many_statements",
			Message: fmt.Sprintf("Test has %d statements (maximum %d)",
				counter.statements, a.maxStatements),
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   test.Name,
			Suggestion: "Break down into smaller, focused tests or extract helper functions",
		})
	}

	if counter.maxDepth > a.maxDepth {
		result.AddIssue(review.Issue{
			Rule: "complexity.deep_nesting",
			Message: fmt.Sprintf("Test has nesting depth of %d (maximum %d)",
				counter.maxDepth, a.maxDepth),
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   test.Name,
			Suggestion: "Reduce nesting by extracting conditions or using early returns",
		})
	}

	if counter.cyclomatic > a.maxComplexity {
		result.AddIssue(review.Issue{
			Rule: "complexity.high_cyclomatic",
			Message: fmt.Sprintf("Test has cyclomatic complexity of %d (maximum %d)",
				counter.cyclomatic, a.maxComplexity),
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       test.Line,
			TestName:   test.Name,
			Suggestion: "Simplify test logic or split into multiple tests",
		})
	}

	result.Metadata["statement_count"] = counter.statements
	result.Metadata["max_depth"] = counter.maxDepth
	result.Metadata["cyclomatic_complexity"] = counter.cyclomatic
	return result
}
