// Package review defines the core data model for test quality
// findings: severities, issues, per-analyzer results, and the test
// descriptor that static analyzers consume.
package review

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/unbound-force/pyreview/internal/pyast"
)

// Severity classifies how serious a finding is. Values are ordered:
// Info < Warning < Error.
type Severity int

// Severity levels, from least to most serious.
const (
	Info Severity = iota
	Warning
	Error
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON encodes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its lowercase name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "info":
		*s = Info
	case "warning":
		*s = Warning
	case "error":
		*s = Error
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Issue is a single quality finding. Rule is the stable dotted
// identifier (e.g. "assertions.missing") that scoring, filtering,
// and deduplication key off; it is always non-empty.
type Issue struct {
	// Rule is the dotted rule id, namespace.specific_check.
	Rule string `json:"rule"`

	// Message is the human-readable description. May embed
	// detected values.
	Message string `json:"message"`

	// Severity is the finding's classification.
	Severity Severity `json:"severity"`

	// FilePath is the source file, empty when unknown (runtime
	// findings have no static location).
	FilePath string `json:"file_path,omitempty"`

	// Line is the 1-based source line, 0 when unknown.
	Line int `json:"line,omitempty"`

	// TestName is the test the finding belongs to.
	TestName string `json:"test_name,omitempty"`

	// Suggestion is optional remediation text.
	Suggestion string `json:"suggestion,omitempty"`
}

// String renders the issue as "path:line [test] message".
func (i Issue) String() string {
	location := ""
	if i.FilePath != "" {
		location = i.FilePath
		if i.Line > 0 {
			location += fmt.Sprintf(":%d", i.Line)
		}
		location += " "
	}
	test := ""
	if i.TestName != "" {
		test = fmt.Sprintf("[%s] ", i.TestName)
	}
	return location + test + i.Message
}

// Result is the outcome of one analyzer run against one test (or,
// for runtime observers, one accumulated entry). Issues preserve
// detection order.
type Result struct {
	// AnalyzerName identifies the analyzer that produced this
	// result (e.g. "assertions", "performance").
	AnalyzerName string `json:"analyzer_name"`

	// Issues is the ordered list of findings.
	Issues []Issue `json:"issues"`

	// Score defaults to 100. Unused by the current scoring
	// algorithm; retained for forward compatibility.
	Score float64 `json:"score"`

	// Metadata carries per-analyzer diagnostic counters, e.g.
	// assertion counts or the measured cyclomatic complexity.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewResult returns an empty result for the named analyzer.
func NewResult(analyzerName string) Result {
	return Result{
		AnalyzerName: analyzerName,
		Score:        100.0,
		Metadata:     map[string]any{},
	}
}

// AddIssue appends a finding.
func (r *Result) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// IssueCount is the number of findings in this result.
func (r Result) IssueCount() int { return len(r.Issues) }

// HasErrors reports whether any finding is Error severity.
func (r Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == Error {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any finding is Warning severity.
func (r Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == Warning {
			return true
		}
	}
	return false
}

// TestItem describes one collected test function. It is constructed
// once by the collector, read-only afterward, and owns its syntax
// tree for the duration of analysis; no analyzer mutates it.
type TestItem struct {
	// Name is the bare function name (e.g. "test_login").
	Name string

	// FilePath is the defining source file.
	FilePath string

	// Line is the 1-based definition line.
	Line int

	// Node is the parsed function, including decorators and body.
	Node *pyast.FuncDef

	// Source is the verbatim function source text.
	Source string

	// ClassName is the enclosing Test* class, empty for
	// module-level tests.
	ClassName string
}

// FullName returns "Class::name" when the test lives in a class,
// else the bare name.
func (t TestItem) FullName() string {
	if t.ClassName != "" {
		return t.ClassName + "::" + t.Name
	}
	return t.Name
}

// Analyzer is the contract shared by the static rule engines: a
// pure function of an immutable TestItem plus frozen configuration.
type Analyzer interface {
	// Name is the analyzer's registry name, also the key of its
	// configuration block.
	Name() string

	// Analyze inspects one test and returns its findings. Found
	// problems are Issues, never errors; Analyze does not fail.
	Analyze(test *TestItem) Result
}

// Observer is the contract shared by the runtime observers. Events
// arrive in strict start→end alternation per test; observers are
// scoped to one sequential execution session.
type Observer interface {
	// Name is the observer's registry name.
	Name() string

	// OnTestStart is called when the named test begins executing.
	OnTestStart(testName string)

	// OnTestEnd is called when the named test finishes.
	OnTestEnd(testName string, passed bool, duration time.Duration)

	// Results returns the accumulated findings after the run.
	Results() []Result
}
