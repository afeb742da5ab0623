package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestSuite(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test_sample.py"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunReview_JSONOutput(t *testing.T) {
	dir := writeTestSuite(t, `def test_user_can_authenticate_with_token():
    assert authenticate("token").ok, "token auth should succeed"
`)

	var buf bytes.Buffer
	err := runReview(reviewParams{
		paths:    []string{dir},
		format:   "json",
		minScore: -1,
		stdout:   &buf,
	})
	if err != nil {
		t.Fatalf("runReview: %v", err)
	}

	var out struct {
		Version string `json:"version"`
		Score   struct {
			TotalTests int    `json:"total_tests"`
			Grade      string `json:"grade"`
		} `json:"score"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if out.Version == "" || out.Score.TotalTests != 1 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestRunReview_InvalidFormat(t *testing.T) {
	err := runReview(reviewParams{paths: []string{"."}, format: "xml", minScore: -1, stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("err = %v, want invalid format", err)
	}
}

func TestRunReview_StrictFailsOnErrors(t *testing.T) {
	dir := writeTestSuite(t, `def test_does_nothing_observable():
    setup()
`)

	var buf bytes.Buffer
	err := runReview(reviewParams{
		paths:    []string{dir},
		format:   "text",
		strict:   true,
		minScore: -1,
		stdout:   &buf,
	})
	if err == nil || !strings.Contains(err.Error(), "strict mode") {
		t.Fatalf("err = %v, want strict mode failure", err)
	}
	// The report is still written before the gate fails.
	if buf.Len() == 0 {
		t.Error("no report written in strict failure")
	}
}

func TestRunReview_MinScoreGate(t *testing.T) {
	dir := writeTestSuite(t, `def test_does_nothing_observable():
    setup()
`)

	err := runReview(reviewParams{
		paths:    []string{dir},
		format:   "text",
		minScore: 99.5,
		stdout:   &bytes.Buffer{},
	})
	if err == nil || !strings.Contains(err.Error(), "below minimum") {
		t.Fatalf("err = %v, want min-score failure", err)
	}
}

func TestRunReview_OutputFile(t *testing.T) {
	dir := writeTestSuite(t, `def test_report_lands_in_requested_file():
    assert compute() == 4
`)
	outPath := filepath.Join(t.TempDir(), "report.html")

	err := runReview(reviewParams{
		paths:    []string{dir},
		format:   "html",
		output:   outPath,
		minScore: -1,
		stdout:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("runReview: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("output file is not an HTML report")
	}
}

func TestRunReview_ConfigDisablesReview(t *testing.T) {
	dir := writeTestSuite(t, `def test_never_analyzed():
    setup()
`)
	cfgPath := filepath.Join(t.TempDir(), "off.yml")
	if err := os.WriteFile(cfgPath, []byte("enabled: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runReview(reviewParams{
		paths:      []string{dir},
		format:     "text",
		configPath: cfgPath,
		strict:     true,
		minScore:   -1,
		stdout:     &buf,
	})
	if err != nil {
		t.Fatalf("disabled review should not fail: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("disabled review should produce no report")
	}
}

func TestRunReview_EventsFile(t *testing.T) {
	dir := writeTestSuite(t, `def test_workflow_completes_quickly_enough():
    assert run_workflow()
`)
	eventsPath := filepath.Join(t.TempDir(), "events.json")
	events := `{
		"version": "1",
		"events": [
			{"action": "start", "test": "test_workflow_completes_quickly_enough"},
			{"action": "end", "test": "test_workflow_completes_quickly_enough", "passed": true, "duration_seconds": 4.2}
		]
	}`
	if err := os.WriteFile(eventsPath, []byte(events), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err := runReview(reviewParams{
		paths:      []string{dir},
		format:     "json",
		eventsPath: eventsPath,
		minScore:   -1,
		stdout:     &buf,
	})
	if err != nil {
		t.Fatalf("runReview: %v", err)
	}
	if !strings.Contains(buf.String(), "performance.very_slow") {
		t.Error("replayed events did not surface the slow test")
	}
	if !strings.Contains(buf.String(), `"performance"`) {
		t.Error("performance stats missing from JSON output")
	}
}

func TestSchemaCmd_PrintsSchemas(t *testing.T) {
	cmd := newSchemaCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(buf.String(), "pyreview Quality Report") {
		t.Error("report schema not printed")
	}

	cmd = newSchemaCmd()
	buf.Reset()
	cmd.SetOut(&buf)
	if err := cmd.Flags().Set("events", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("schema --events: %v", err)
	}
	if !strings.Contains(buf.String(), "Execution Events") {
		t.Error("events schema not printed")
	}
}
