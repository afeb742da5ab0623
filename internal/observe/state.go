package observe

import (
	"reflect"

	"github.com/unbound-force/pyreview/internal/review"

	"time"
)

// Cell is one monitored named state cell. Get reports the cell's
// current value and whether it is set at all; the distinction feeds
// the added/deleted classification.
//
// The original design snapshotted every public attribute of whole
// modules via reflection. Declared cells are a deliberate
// narrowing: collaborators register exactly the state they own, so
// attributes added mid-run by unrelated code cannot pollute the
// diff.
type Cell struct {
	Name string
	Get  func() (value any, ok bool)
}

// State is the runtime state-mutation observer. It snapshots the
// registered cells before each test, re-snapshots after, and
// classifies every changed cell as added, modified, or deleted.
type State struct {
	cells []Cell

	currentTest string
	before      map[string]snapshot

	order         []string
	modifications map[string][]string
}

type snapshot struct {
	value any
	ok    bool
}

// NewState builds the observer. Cells are registered separately so
// hosts can declare state after construction but before the run.
func NewState() *State {
	return &State{modifications: map[string][]string{}}
}

// Register declares a monitored cell. Must be called before the
// first test starts.
func (s *State) Register(cell Cell) {
	s.cells = append(s.cells, cell)
}

// Name implements review.Observer.
func (s *State) Name() string { return "isolation_runtime" }

// OnTestStart implements review.Observer.
func (s *State) OnTestStart(testName string) {
	s.currentTest = testName
	s.before = map[string]snapshot{}
	for _, cell := range s.cells {
		s.before[cell.Name] = s.take(cell)
	}
}

// take snapshots one cell, shallow-copying mutable containers so a
// later in-place mutation does not corrupt the "before" image.
func (s *State) take(cell Cell) snapshot {
	value, ok := cell.Get()
	if !ok {
		return snapshot{}
	}
	return snapshot{value: shallowCopy(value), ok: true}
}

// shallowCopy copies maps and slices one level deep; scalars pass
// through.
func shallowCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = e
		}
		return out
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out
	default:
		return value
	}
}

// OnTestEnd implements review.Observer: diffs the registered cells
// against the start-of-test snapshot.
func (s *State) OnTestEnd(testName string, passed bool, duration time.Duration) {
	var changed []string
	for _, cell := range s.cells {
		before := s.before[cell.Name]
		after := s.take(cell)
		switch {
		case !before.ok && after.ok:
			changed = append(changed, cell.Name+" (added)")
		case before.ok && !after.ok:
			changed = append(changed, cell.Name+" (deleted)")
		case before.ok && after.ok && !reflect.DeepEqual(before.value, after.value):
			changed = append(changed, cell.Name+" (modified)")
		}
	}

	if len(changed) > 0 {
		if _, known := s.modifications[testName]; !known {
			s.order = append(s.order, testName)
		}
		s.modifications[testName] = append(s.modifications[testName], changed...)
	}
	s.currentTest = ""
}

// Results implements review.Observer: one result per test that
// modified any monitored cell, each modification its own issue.
func (s *State) Results() []review.Result {
	var results []review.Result
	for _, testName := range s.order {
		mods := s.modifications[testName]
		result := review.NewResult(s.Name())
		for _, mod := range mods {
			result.AddIssue(review.Issue{
				Rule:       "isolation.runtime_modification",
				Message:    "Test modified shared state: " + mod,
				Severity:   review.Warning,
				TestName:   testName,
				Suggestion: "Ensure test cleanup restores original state",
			})
		}
		result.Metadata["modifications"] = mods
		results = append(results, result)
	}
	return results
}
