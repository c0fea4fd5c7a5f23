package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

func TestPercentile(t *testing.T) {
	cases := []struct {
		name     string
		values   []time.Duration
		p        float64
		expected time.Duration
	}{
		{name: "empty", values: nil, p: 0.5, expected: 0},
		{name: "lower bound", values: []time.Duration{time.Millisecond, 2 * time.Millisecond}, p: -0.1, expected: time.Millisecond},
		{name: "upper bound", values: []time.Duration{time.Millisecond, 2 * time.Millisecond}, p: 1.2, expected: 2 * time.Millisecond},
		{name: "median", values: []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}, p: 0.5, expected: 2 * time.Millisecond},
		{
			name:     "p95",
			values:   []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond, 5 * time.Millisecond},
			p:        0.95,
			expected: 5 * time.Millisecond,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := percentile(tc.values, tc.p); got != tc.expected {
				t.Fatalf("percentile(%s, %f) = %s, want %s", tc.name, tc.p, got, tc.expected)
			}
		})
	}
}

func TestStepsPerSecond(t *testing.T) {
	cases := []struct {
		name     string
		total    time.Duration
		steps    int
		expected float64
	}{
		{name: "zero duration", total: 0, steps: 10, expected: 0},
		{name: "zero steps", total: time.Second, steps: 0, expected: 0},
		{name: "positive", total: 10 * time.Millisecond, steps: 4, expected: 400},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stepsPerSecond(tc.total, tc.steps)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Fatalf("stepsPerSecond(%s) = %f, want %f", tc.name, got, tc.expected)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	if got := formatBytes(0); got != "0 B (0.00 MiB)" {
		t.Fatalf("formatBytes(0) = %q", got)
	}
	if got := formatBytes(1024); got != "1024 B (0.00 MiB)" {
		t.Fatalf("formatBytes(1024) = %q", got)
	}
	if got := formatBytes(-2 * 1024 * 1024); got != "-2097152 B (2.00 MiB)" {
		t.Fatalf("formatBytes(-2MiB) = %q", got)
	}
}

func TestBuildReport(t *testing.T) {
	fixture := benchFixture{Name: "test", Steps: []benchStep{{}, {}}}
	durations := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond, 4 * time.Millisecond}
	start := runtime.MemStats{Mallocs: 1000, TotalAlloc: 4096, HeapAlloc: 2048}
	end := runtime.MemStats{Mallocs: 1500, TotalAlloc: 8192, HeapAlloc: 3072}
	iterationDurations := []time.Duration{10 * time.Millisecond, 12 * time.Millisecond}

	report := buildReport(fixture, 9, 2, durations, iterationDurations, []int{5, 3}, 8, start, end)
	summary := report.Summary

	if summary.TotalSteps != 4 || summary.Rules != 9 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Batches.Total != 8 || math.Abs(summary.Batches.PerStep-2) > 1e-9 || math.Abs(summary.Batches.PerIteration-4) > 1e-9 {
		t.Fatalf("unexpected batch stats: %+v", summary.Batches)
	}
	if math.Abs(summary.Allocations.PerStep-125) > 1e-9 || math.Abs(summary.Allocations.BytesPerStep-1024) > 1e-9 {
		t.Fatalf("unexpected allocation stats: %+v", summary.Allocations)
	}
	if summary.Allocations.HeapAllocDelta != 1024 {
		t.Fatalf("HeapAllocDelta = %d, want 1024", summary.Allocations.HeapAllocDelta)
	}
	if math.Abs(summary.StepsPerSecond-400) > 1e-6 {
		t.Fatalf("StepsPerSecond = %f, want 400", summary.StepsPerSecond)
	}
	if summary.IterationDuration.Min != 10 || summary.IterationDuration.Max != 12 || math.Abs(summary.IterationDuration.Mean-11) > 1e-9 {
		t.Fatalf("unexpected iteration stats: %+v", summary.IterationDuration)
	}
	if len(report.Iterations) != 2 {
		t.Fatalf("expected 2 iteration entries, got %d", len(report.Iterations))
	}
	if iter := report.Iterations[0]; iter.Index != 1 || iter.Batches != 5 || iter.Steps != 2 {
		t.Fatalf("unexpected first iteration summary: %+v", iter)
	}
}

func TestPrintHumanSummary(t *testing.T) {
	summary := benchSummary{
		Fixture:           "test",
		Rules:             9,
		Iterations:        2,
		StepsPerIteration: 3,
		Batches:           benchBatchStats{Total: 12, PerIteration: 6, PerStep: 2},
		Latency:           benchLatencyStats{Min: 1, Mean: 2, Median: 1.5, P95: 3.5, Max: 4},
		Allocations:       benchAllocationStats{Total: 120, PerStep: 20, HeapAllocDelta: 1024},
		StepsPerSecond:    300,
	}
	var buf bytes.Buffer
	if err := printHumanSummary(summary, &buf); err != nil {
		t.Fatalf("printHumanSummary returned error: %v", err)
	}
	output := buf.String()
	for _, c := range []string{
		"Fixture:                  test",
		"Batches:                  12 (6.00 / iter, 2.00 / step)",
		"Latency (ms):             min 1.00 | mean 2.00 | median 1.50 | p95 3.50 | max 4.00",
		"Allocations:              120 total (20.00 / step)",
		"Heap delta:               1024 B (0.00 MiB)",
	} {
		if !strings.Contains(output, c) {
			t.Fatalf("expected summary to contain %q, got:\n%s", c, output)
		}
	}
}

func TestParseStepLog(t *testing.T) {
	input := `
# comment
new>>3,Firefox,Mozilla Firefox

title>>3,Inbox
move>>3,4
close>>4
`
	steps, err := parseStepLog(input)
	if err != nil {
		t.Fatalf("parseStepLog returned error: %v", err)
	}
	if len(steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(steps))
	}
	if s := steps[0]; s.Kind != "new" || s.Workspace != 3 || s.Window.Class != "Firefox" || s.Window.Instance != "firefox" || s.Window.Name != "Mozilla Firefox" {
		t.Fatalf("unexpected first step: %+v", s)
	}
	if s := steps[1]; s.Kind != "title" || s.Window.Name != "Inbox" {
		t.Fatalf("unexpected second step: %+v", s)
	}
	if s := steps[2]; s.Kind != "move" || s.Workspace != 3 || s.To != 4 {
		t.Fatalf("unexpected third step: %+v", s)
	}

	for _, bad := range []string{"resize>>1", "new>>x,Firefox", "move>>1", ">>1", "# nothing"} {
		if _, err := parseStepLog(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestLoadFixtureJSON(t *testing.T) {
	base := defaultFixture()
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	payload := `{
  "name": "custom",
  "steps": [
    {"kind": " new ", "workspace": 5, "window": {"windowClass": "vlc"}, "delay": "15ms"}
  ]
}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fixture, err := loadFixture(path, base)
	if err != nil {
		t.Fatalf("loadFixture returned error: %v", err)
	}
	if fixture.Name != "custom" || len(fixture.Workspaces) != len(base.Workspaces) {
		t.Fatalf("unexpected fixture: %+v", fixture)
	}
	if len(fixture.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(fixture.Steps))
	}
	step := fixture.Steps[0]
	if step.Kind != "new" || step.Workspace != 5 || step.Window.Class != "vlc" || step.Delay != 15*time.Millisecond {
		t.Fatalf("unexpected step: %+v", step)
	}

	logPath := filepath.Join(dir, "steps.log")
	if err := os.WriteFile(logPath, []byte("close>>1\n"), 0o644); err != nil {
		t.Fatalf("write step log: %v", err)
	}
	fixture, err = loadFixture(logPath, base)
	if err != nil {
		t.Fatalf("loadFixture step log: %v", err)
	}
	if fixture.Name != "steps.log" || len(fixture.Steps) != 1 || fixture.Steps[0].Kind != "close" {
		t.Fatalf("unexpected step log fixture: %+v", fixture)
	}
}

func TestReplayIterationRenamesDefaultFixture(t *testing.T) {
	table := rules.Compile(config.Default(), icons.Default(), config.DefaultOptions())
	logger := util.NewLoggerWithWriter(util.LevelError, io.Discard)
	fixture := defaultFixture()

	result, err := replayIteration(context.Background(), fixture, table, logger, false)
	if err != nil {
		t.Fatalf("replayIteration: %v", err)
	}
	if len(result.steps) != len(fixture.Steps) {
		t.Fatalf("expected %d step timings, got %d", len(fixture.Steps), len(result.steps))
	}
	if result.batches == 0 {
		t.Fatalf("expected rename batches to be sent")
	}

	glyphs := icons.Default()
	firefox, _ := glyphs.Lookup("firefox")
	chrome, _ := glyphs.Lookup("chrome")
	terminal, _ := glyphs.Lookup("terminal")
	want := []string{"1: " + firefox + "|" + chrome, "2: " + terminal, "mail", "3"}
	if strings.Join(result.names, ",") != strings.Join(want, ",") {
		t.Fatalf("final names = %q, want %q", result.names, want)
	}

	// the fixture itself is not mutated between iterations
	if fixture.Workspaces[0].Name != "1" || len(fixture.Workspaces[0].Windows) != 1 {
		t.Fatalf("fixture was mutated: %+v", fixture.Workspaces[0])
	}
}

func TestRunBenchWritesReport(t *testing.T) {
	var out bytes.Buffer
	opts := benchOptions{iterations: 2, warmup: 1, logLevel: "error", outputPath: "-"}
	if err := runBench(context.Background(), opts, &out); err != nil {
		t.Fatalf("runBench: %v", err)
	}
	var report benchReport
	if err := json.NewDecoder(&out).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Summary.Iterations != 2 || report.Summary.WarmupIterations != 1 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if report.Summary.TotalSteps != 2*len(defaultFixture().Steps) || len(report.DurationsMs) != report.Summary.TotalSteps {
		t.Fatalf("unexpected step counts: %+v", report.Summary)
	}

	if err := runBench(context.Background(), benchOptions{iterations: 0}, &out); err == nil {
		t.Fatalf("expected error for zero iterations")
	}
}
