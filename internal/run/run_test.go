package run_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/unbound-force/pyreview/internal/config"
	"github.com/unbound-force/pyreview/internal/observe"
	"github.com/unbound-force/pyreview/internal/run"
)

func writeSuite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestReview_EndToEnd(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_auth.py": `def test_empty_body_has_no_assertions():
    setup()

def test_user_login_returns_active_session():
    session = login("alice", "secret")
    assert session.active, "login should activate the session"
`,
	})

	outcome, err := run.Review(run.Params{
		Paths:  []string{dir},
		Config: config.Default(),
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	if outcome.TotalTests != 2 {
		t.Fatalf("TotalTests = %d, want 2", outcome.TotalTests)
	}
	var foundMissing bool
	for _, result := range outcome.Results {
		for _, issue := range result.Issues {
			if issue.Rule == "assertions.missing" {
				foundMissing = true
				if issue.TestName != "test_empty_body_has_no_assertions" {
					t.Errorf("missing-assertion charged to %s", issue.TestName)
				}
			}
		}
	}
	if !foundMissing {
		t.Error("assertions.missing not detected")
	}
	if outcome.Score.TotalScore >= 100 {
		t.Errorf("score = %v, want below 100 for a flawed suite", outcome.Score.TotalScore)
	}
	if outcome.Score.TotalTests != 2 {
		t.Errorf("breakdown TotalTests = %d, want 2", outcome.Score.TotalTests)
	}
}

func TestReview_OnlyRestrictsAnalyzers(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_short.py": "def test_ab():\n    x = 1\n",
	})

	outcome, err := run.Review(run.Params{
		Paths:  []string{dir},
		Config: config.Default(),
		Only:   []string{"naming"},
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	for _, result := range outcome.Results {
		if result.AnalyzerName != "naming" {
			t.Errorf("unexpected analyzer %s in restricted run", result.AnalyzerName)
		}
	}
}

func TestReview_UnknownOnlyNameFails(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_any.py": "def test_anything_at_all():\n    assert True\n",
	})

	if _, err := run.Review(run.Params{
		Paths:  []string{dir},
		Config: config.Default(),
		Only:   []string{"nonexistent"},
	}); err == nil {
		t.Error("expected error for unknown analyzer name")
	}
}

func TestReview_IgnoreRulesFilterIssues(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_noisy.py": `def test_prints_progress_while_working():
    print("working")
    assert compute() == 4
`,
	})

	cfg := config.Default()
	cfg.IgnoreRules = []string{"patterns.print_statement"}

	outcome, err := run.Review(run.Params{Paths: []string{dir}, Config: cfg})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	for _, result := range outcome.Results {
		for _, issue := range result.Issues {
			if issue.Rule == "patterns.print_statement" {
				t.Error("ignored rule still reported")
			}
		}
	}
}

func TestReview_IgnoreNamespaceFiltersWholeAnalyzer(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_noisy.py": `def test_sleeps_and_prints_during_polling():
    print("working")
    time.sleep(1)
    assert compute() == 4
`,
	})

	cfg := config.Default()
	cfg.IgnoreRules = []string{"patterns"}

	outcome, err := run.Review(run.Params{Paths: []string{dir}, Config: cfg})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	for _, result := range outcome.Results {
		for _, issue := range result.Issues {
			if result.AnalyzerName == "patterns" && len(result.Issues) > 0 {
				t.Errorf("namespace-ignored issue survived: %s", issue.Rule)
			}
		}
	}
}

func TestReview_IgnorePathsExcludeTests(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_keep.py":   "def test_kept_in_analysis():\n    assert True\n",
		"test_legacy.py": "def test_excluded_from_analysis():\n    assert True\n",
	})

	cfg := config.Default()
	cfg.IgnorePaths = []string{"test_legacy.py"}

	outcome, err := run.Review(run.Params{Paths: []string{dir}, Config: cfg})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	if outcome.TotalTests != 1 {
		t.Fatalf("TotalTests = %d, want 1 after path ignore", outcome.TotalTests)
	}
}

func TestReview_EventsFeedObservers(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_timed.py": "def test_workflow_completes_under_pressure():\n    assert run_workflow()\n",
	})

	outcome, err := run.Review(run.Params{
		Paths:  []string{dir},
		Config: config.Default(),
		Events: []observe.Event{
			{Action: "start", Test: "test_workflow_completes_under_pressure"},
			{Action: "end", Test: "test_workflow_completes_under_pressure", Passed: true, DurationSeconds: 3.0},
		},
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}

	var verySlow bool
	for _, result := range outcome.Results {
		for _, issue := range result.Issues {
			if issue.Rule == "performance.very_slow" {
				verySlow = true
			}
		}
	}
	if !verySlow {
		t.Error("performance.very_slow not produced from events")
	}
	if outcome.Performance == nil || outcome.Performance.TotalMS != 3000 {
		t.Errorf("Performance stats = %+v, want TotalMS 3000", outcome.Performance)
	}
}

func TestReview_BrokenEventStreamFails(t *testing.T) {
	dir := writeSuite(t, map[string]string{
		"test_any.py": "def test_anything_at_all():\n    assert True\n",
	})

	if _, err := run.Review(run.Params{
		Paths:  []string{dir},
		Config: config.Default(),
		Events: []observe.Event{{Action: "end", Test: "test_anything_at_all"}},
	}); err == nil {
		t.Error("expected error for end-without-start event stream")
	}
}

func TestReview_EmptyDirectoryScoresPerfect(t *testing.T) {
	outcome, err := run.Review(run.Params{
		Paths:  []string{t.TempDir()},
		Config: config.Default(),
	})
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if outcome.TotalTests != 0 || outcome.Score.TotalScore != 100 || outcome.Score.Grade != "A" {
		t.Errorf("empty suite outcome = %d tests, %v (%s)",
			outcome.TotalTests, outcome.Score.TotalScore, outcome.Score.Grade)
	}
}
