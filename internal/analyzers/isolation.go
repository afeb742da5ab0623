package analyzers

import (
	"fmt"
	"unicode"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/pyast"
	"github.com/unbound-force/pyreview/internal/review"
)

// mutatingMethods are collection methods that modify their receiver
// in place.
var mutatingMethods = map[string]bool{
	"append": true, "extend": true, "insert": true, "remove": true,
	"pop": true, "clear": true, "add": true, "discard": true,
	"update": true, "intersection_update": true,
	"difference_update": true, "symmetric_difference_update": true,
	"setdefault": true, "popitem": true,
}

// Isolation statically detects mutation of state that outlives the
// test: global declarations, class attribute writes, mutating calls
// on class-level collections, and subscript writes into module
// attributes. Plain instance attribute assignment (self.x = ...) is
// the expected pattern and never flagged.
type Isolation struct{}

// NewIsolation builds the analyzer. It has no options.
func NewIsolation(cfg config.Config) *Isolation {
	_ = cfg.Analyzer("isolation")
	return &Isolation{}
}

// Name implements review.Analyzer.
func (a *Isolation) Name() string { return "isolation" }

// isClassRef reports whether a base name conventionally refers to a
// class: the cls idiom or an uppercase-led identifier.
func isClassRef(name string) bool {
	if name == "cls" {
		return true
	}
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// startsLower reports whether the identifier begins with a
// lowercase letter.
func startsLower(name string) bool {
	for _, r := range name {
		return unicode.IsLower(r)
	}
	return false
}

// Analyze implements review.Analyzer.
func (a *Isolation) Analyze(test *review.TestItem) review.Result {
	result := review.NewResult(a.Name())

	var (
		globalCount    int
		classAttrCount int
	)
	imported := map[string]bool{}

	reportGlobal := func(line int, name string) {
		globalCount++
		result.AddIssue(review.Issue{
			Rule:       "isolation.global_modification",
			Message:    fmt.Sprintf("Test uses 'global %s' which modifies shared state", name),
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       line,
			TestName:   test.Name,
			Suggestion: "Avoid modifying global state; use fixtures or dependency injection",
		})
	}
	reportClassAttr := func(line int, attr string) {
		classAttrCount++
		result.AddIssue(review.Issue{
			Rule:       "isolation.class_attr_modification",
			Message:    "Test modifies class/module attribute: " + attr,
			Severity:   review.Warning,
			FilePath:   test.FilePath,
			Line:       line,
			TestName:   test.Name,
			Suggestion: "Use instance attributes or fixtures instead of class-level state",
		})
	}

	checkTarget := func(target pyast.Expr) {
		switch t := target.(type) {
		case *pyast.Attribute:
			if base, ok := t.Value.(*pyast.Name); ok && isClassRef(base.ID) {
				reportClassAttr(t.Line, base.ID+"."+t.Attr)
			}
		case *pyast.Subscript:
			if attr, ok := t.Value.(*pyast.Attribute); ok {
				if base, ok := attr.Value.(*pyast.Name); ok {
					if imported[base.ID] || startsLower(base.ID) {
						reportClassAttr(t.Line, fmt.Sprintf("%s.%s[...]", base.ID, attr.Attr))
					}
				}
			}
		}
	}

	pyast.Inspect(test.Node, func(n pyast.Node) {
		switch v := n.(type) {
		case *pyast.Import:
			for _, name := range v.Names {
				imported[name] = true
			}
		case *pyast.ImportFrom:
			if v.Module != "" {
				imported[v.Module] = true
			}
		case *pyast.Global:
			for _, name := range v.Names {
				reportGlobal(v.Line, name)
			}
		case *pyast.Assign:
			for _, target := range v.Targets {
				checkTarget(target)
			}
		case *pyast.AugAssign:
			checkTarget(v.Target)
		case *pyast.Call:
			// ClassName.attr.mutating_method() pattern.
			fn, ok := v.Func.(*pyast.Attribute)
			if !ok || !mutatingMethods[fn.Attr] {
				return
			}
			inner, ok := fn.Value.(*pyast.Attribute)
			if !ok {
				return
			}
			if base, ok := inner.Value.(*pyast.Name); ok && isClassRef(base.ID) {
				reportClassAttr(v.Line, fmt.Sprintf("%s.%s.%s()", base.ID, inner.Attr, fn.Attr))
			}
		}
	})

	result.Metadata["global_modifications"] = globalCount
	result.Metadata["class_attr_modifications"] = classAttrCount
	return result
}
