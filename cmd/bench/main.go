package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"runtime/pprof"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/engine"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

// benchFixture is a starting layout plus the window changes replayed on it.
type benchFixture struct {
	Name       string
	Workspaces []state.Workspace
	Steps      []benchStep
}

// benchStep is one window change. Windows are addressed by workspace number;
// close, title and move act on the last window of the workspace.
type benchStep struct {
	Kind      string
	Workspace int
	To        int
	Window    state.Window
	Delay     time.Duration
}

type benchLatencyStats struct {
	Min    float64 `json:"minMs"`
	Mean   float64 `json:"meanMs"`
	Median float64 `json:"medianMs"`
	P95    float64 `json:"p95Ms"`
	Max    float64 `json:"maxMs"`
}

type benchAllocationStats struct {
	Total          uint64  `json:"totalAllocations"`
	PerStep        float64 `json:"allocationsPerStep"`
	BytesTotal     uint64  `json:"bytesTotal"`
	BytesPerStep   float64 `json:"bytesPerStep"`
	HeapAllocDelta int64   `json:"heapAllocDeltaBytes"`
}

type benchBatchStats struct {
	Total        int     `json:"total"`
	PerIteration float64 `json:"perIteration"`
	PerStep      float64 `json:"perStep"`
}

type benchSummary struct {
	Fixture           string               `json:"fixture"`
	Rules             int                  `json:"rules"`
	Iterations        int                  `json:"iterations"`
	StepsPerIteration int                  `json:"stepsPerIteration"`
	TotalSteps        int                  `json:"totalSteps"`
	WarmupIterations  int                  `json:"warmupIterations"`
	Batches           benchBatchStats      `json:"batches"`
	Latency           benchLatencyStats    `json:"latency"`
	IterationDuration benchLatencyStats    `json:"iterationDuration"`
	Allocations       benchAllocationStats `json:"allocations"`
	TotalDurationMs   float64              `json:"totalDurationMs"`
	StepsPerSecond    float64              `json:"stepsPerSecond"`
}

type benchReport struct {
	Summary     benchSummary     `json:"summary"`
	DurationsMs []float64        `json:"durationsMs"`
	Iterations  []benchIteration `json:"iterations,omitempty"`
	FinalNames  []string         `json:"finalNames,omitempty"`
}

type benchIteration struct {
	Index      int     `json:"index"`
	DurationMs float64 `json:"durationMs"`
	Batches    int     `json:"batches"`
	Steps      int     `json:"steps"`
}

var renameCmd = regexp.MustCompile(`^rename workspace "((?:[^"\\]|\\.)*)" to "((?:[^"\\]|\\.)*)"$`)

// benchI3 is an in-memory i3 that applies the renames it is sent.
type benchI3 struct {
	mu         sync.Mutex
	workspaces []state.Workspace
	batches    int
}

func (b *benchI3) ListTreeWorkspaces(context.Context) ([]state.TreeWorkspace, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]state.TreeWorkspace, len(b.workspaces))
	for i, ws := range b.workspaces {
		out[i] = state.TreeWorkspace{Name: ws.Name, Windows: append([]state.Window(nil), ws.Windows...)}
	}
	return out, nil
}

func (b *benchI3) ListWorkspaceStatus(context.Context) ([]state.WorkspaceStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]state.WorkspaceStatus, len(b.workspaces))
	for i, ws := range b.workspaces {
		out[i] = state.WorkspaceStatus{Num: ws.Num, Name: ws.Name, Visible: ws.Visible, Focused: ws.Focused}
	}
	return out, nil
}

func (b *benchI3) RunCommand(_ context.Context, command string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches++
	for _, part := range strings.Split(command, ";") {
		m := renameCmd.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		from, to := unescape(m[1]), unescape(m[2])
		for i := range b.workspaces {
			if b.workspaces[i].Name == from {
				b.workspaces[i].Name = to
			}
		}
	}
	return nil
}

var unescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`)

func unescape(s string) string {
	return unescaper.Replace(s)
}

func (b *benchI3) Batches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batches
}

func (b *benchI3) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.workspaces))
	for i, ws := range b.workspaces {
		names[i] = ws.Name
	}
	return names
}

func (b *benchI3) apply(step benchStep) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.workspaceIndex(step.Workspace)
	switch step.Kind {
	case "new":
		if idx < 0 {
			b.workspaces = append(b.workspaces, state.Workspace{Num: step.Workspace, Name: strconv.Itoa(step.Workspace)})
			idx = len(b.workspaces) - 1
		}
		b.workspaces[idx].Windows = append(b.workspaces[idx].Windows, step.Window)
		return nil
	}
	if idx < 0 || len(b.workspaces[idx].Windows) == 0 {
		return fmt.Errorf("%s: workspace %d has no windows", step.Kind, step.Workspace)
	}
	windows := b.workspaces[idx].Windows
	last := len(windows) - 1
	switch step.Kind {
	case "close":
		b.workspaces[idx].Windows = windows[:last]
	case "title":
		windows[last].Name = step.Window.Name
		windows[last].Title = step.Window.Name
	case "move":
		win := windows[last]
		b.workspaces[idx].Windows = windows[:last]
		to := b.workspaceIndex(step.To)
		if to < 0 {
			b.workspaces = append(b.workspaces, state.Workspace{Num: step.To, Name: strconv.Itoa(step.To)})
			to = len(b.workspaces) - 1
		}
		b.workspaces[to].Windows = append(b.workspaces[to].Windows, win)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
	return nil
}

func (b *benchI3) workspaceIndex(num int) int {
	for i, ws := range b.workspaces {
		if ws.Num == num {
			return i
		}
	}
	return -1
}

type benchOptions struct {
	rulesPath     string
	fixturePath   string
	iterations    int
	warmup        int
	cpuProfile    string
	memProfile    string
	logLevel      string
	respectDelays bool
	outputPath    string
	human         bool
}

func main() {
	if err := newBenchCmd().Execute(); err != nil {
		exitErr(err)
	}
}

func newBenchCmd() *cobra.Command {
	var opts benchOptions
	cmd := &cobra.Command{
		Use:           "bench",
		Short:         "Replay window changes through the renamer and report timings",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.rulesPath, "rules", "", "path to a rule file (default: built-in rules)")
	f.StringVar(&opts.fixturePath, "fixture", "", "path to replay fixture (JSON layout or step log)")
	f.IntVar(&opts.iterations, "iterations", 10, "number of times to replay the fixture")
	f.IntVar(&opts.warmup, "warmup", 0, "number of warm-up iterations to run before timing")
	f.StringVar(&opts.cpuProfile, "cpu-profile", "", "write CPU profile to file")
	f.StringVar(&opts.memProfile, "mem-profile", "", "write heap profile to file")
	f.StringVar(&opts.logLevel, "log-level", "error", "log level (trace|debug|info|warn|error)")
	f.BoolVar(&opts.respectDelays, "respect-delays", false, "sleep for step delays declared in the fixture")
	f.StringVar(&opts.outputPath, "output", "-", "write JSON report to file ('-' for stdout)")
	f.BoolVar(&opts.human, "human", false, "print a tabular summary alongside the JSON output")
	return cmd
}

func runBench(ctx context.Context, opts benchOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.iterations <= 0 {
		return errors.New("iterations must be positive")
	}
	if opts.warmup < 0 {
		return errors.New("warmup must be zero or positive")
	}
	logger := util.NewLogger(util.ParseLogLevel(opts.logLevel))

	cfg := config.Default()
	if opts.rulesPath != "" {
		loaded, _, err := config.Load(opts.rulesPath)
		if err != nil {
			return fmt.Errorf("load rules: %w", err)
		}
		cfg = loaded
	}
	table := rules.Compile(cfg, icons.Default(), config.DefaultOptions())

	fixture := defaultFixture()
	if opts.fixturePath != "" {
		loaded, err := loadFixture(opts.fixturePath, fixture)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
		fixture = loaded
	}
	if len(fixture.Steps) == 0 {
		return errors.New("fixture contains no steps")
	}

	if opts.cpuProfile != "" {
		f, err := os.Create(opts.cpuProfile)
		if err != nil {
			return fmt.Errorf("create cpu profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	for i := 0; i < opts.warmup; i++ {
		if _, err := replayIteration(ctx, fixture, table, logger, opts.respectDelays); err != nil {
			return fmt.Errorf("warmup iteration %d: %w", i+1, err)
		}
	}

	runtime.GC()
	var startMem runtime.MemStats
	runtime.ReadMemStats(&startMem)

	var (
		durations          []time.Duration
		iterationDurations []time.Duration
		iterationBatches   []int
		totalBatches       int
		finalNames         []string
	)
	for i := 0; i < opts.iterations; i++ {
		result, err := replayIteration(ctx, fixture, table, logger, opts.respectDelays)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", i+1, err)
		}
		iterationDurations = append(iterationDurations, result.duration)
		iterationBatches = append(iterationBatches, result.batches)
		totalBatches += result.batches
		durations = append(durations, result.steps...)
		finalNames = result.names
	}

	runtime.GC()
	var endMem runtime.MemStats
	runtime.ReadMemStats(&endMem)

	if opts.memProfile != "" {
		f, err := os.Create(opts.memProfile)
		if err != nil {
			return fmt.Errorf("create mem profile: %w", err)
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("write heap profile: %w", err)
		}
	}

	report := buildReport(fixture, len(table.Entries()), opts.iterations, durations, iterationDurations, iterationBatches, totalBatches, startMem, endMem)
	report.Summary.WarmupIterations = opts.warmup
	report.FinalNames = finalNames
	if err := writeReport(report, opts.outputPath, stdout); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if opts.human {
		if err := printHumanSummary(report.Summary, stdout); err != nil {
			return fmt.Errorf("print human summary: %w", err)
		}
	}
	return nil
}

type iterationResult struct {
	duration time.Duration
	batches  int
	steps    []time.Duration
	names    []string
}

// replayIteration renames the starting layout once, then applies each step
// and times the rename cycle that follows it.
func replayIteration(ctx context.Context, fixture benchFixture, table *rules.Table, logger *util.Logger, respectDelays bool) (iterationResult, error) {
	iterationStart := time.Now()
	i3 := fixture.newI3()
	eng := engine.New(i3, logger, table, false, nil)
	if err := eng.Reconcile(ctx); err != nil {
		return iterationResult{}, fmt.Errorf("initial rename: %w", err)
	}

	steps := make([]time.Duration, 0, len(fixture.Steps))
	for idx, step := range fixture.Steps {
		if respectDelays && step.Delay > 0 {
			time.Sleep(step.Delay)
		}
		if err := i3.apply(step); err != nil {
			return iterationResult{}, fmt.Errorf("step %d: %w", idx+1, err)
		}
		start := time.Now()
		if err := eng.Reconcile(ctx); err != nil {
			return iterationResult{}, fmt.Errorf("step %d (%s): %w", idx+1, step.Kind, err)
		}
		steps = append(steps, time.Since(start))
	}
	return iterationResult{
		duration: time.Since(iterationStart),
		batches:  i3.Batches(),
		steps:    steps,
		names:    i3.Names(),
	}, nil
}

func buildReport(fixture benchFixture, ruleCount, iterations int, durations, iterationDurations []time.Duration, iterationBatches []int, batches int, start, end runtime.MemStats) benchReport {
	totalSteps := len(fixture.Steps) * iterations
	latencyStats, totalStepDuration := buildLatencyStats(durations)
	iterationStats, _ := buildLatencyStats(iterationDurations)

	allocs := end.Mallocs - start.Mallocs
	bytesAllocated := end.TotalAlloc - start.TotalAlloc

	durationsMs := make([]float64, len(durations))
	for i, d := range durations {
		durationsMs[i] = toMillis(d)
	}

	iterationsData := make([]benchIteration, 0, len(iterationDurations))
	for i, d := range iterationDurations {
		batchCount := 0
		if i < len(iterationBatches) {
			batchCount = iterationBatches[i]
		}
		iterationsData = append(iterationsData, benchIteration{
			Index:      i + 1,
			DurationMs: toMillis(d),
			Batches:    batchCount,
			Steps:      len(fixture.Steps),
		})
	}

	summary := benchSummary{
		Fixture:           fixture.Name,
		Rules:             ruleCount,
		Iterations:        iterations,
		StepsPerIteration: len(fixture.Steps),
		TotalSteps:        totalSteps,
		Batches: benchBatchStats{
			Total:        batches,
			PerIteration: safeDivide(float64(batches), iterations),
			PerStep:      safeDivide(float64(batches), totalSteps),
		},
		Latency:           latencyStats,
		IterationDuration: iterationStats,
		Allocations: benchAllocationStats{
			Total:          allocs,
			PerStep:        safeDivide(float64(allocs), totalSteps),
			BytesTotal:     bytesAllocated,
			BytesPerStep:   safeDivide(float64(bytesAllocated), totalSteps),
			HeapAllocDelta: int64(end.HeapAlloc) - int64(start.HeapAlloc),
		},
		TotalDurationMs: toMillis(totalStepDuration),
		StepsPerSecond:  stepsPerSecond(totalStepDuration, totalSteps),
	}
	return benchReport{Summary: summary, DurationsMs: durationsMs, Iterations: iterationsData}
}

func buildLatencyStats(durations []time.Duration) (benchLatencyStats, time.Duration) {
	stats := benchLatencyStats{}
	if len(durations) == 0 {
		return stats, 0
	}
	total := time.Duration(0)
	for _, d := range durations {
		total += d
	}
	mean := total / time.Duration(len(durations))
	sorted := append([]time.Duration(nil), durations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	stats.Min = toMillis(sorted[0])
	stats.Mean = toMillis(mean)
	stats.Median = toMillis(percentile(sorted, 0.50))
	stats.P95 = toMillis(percentile(sorted, 0.95))
	stats.Max = toMillis(sorted[len(sorted)-1])
	return stats, total
}

func safeDivide(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func writeReport(report benchReport, outputPath string, stdout io.Writer) error {
	w := stdout
	if path := strings.TrimSpace(outputPath); path != "" && path != "-" {
		dir := filepath.Dir(path)
		if dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create report dir: %w", err)
			}
		}
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func printHumanSummary(summary benchSummary, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	latency := summary.Latency
	iteration := summary.IterationDuration
	allocs := summary.Allocations
	lines := []string{
		fmt.Sprintf("Fixture:\t%s", summary.Fixture),
		fmt.Sprintf("Rules:\t%d", summary.Rules),
		fmt.Sprintf("Iterations:\t%d (%d warmup)", summary.Iterations, summary.WarmupIterations),
		fmt.Sprintf("Steps/iteration:\t%d", summary.StepsPerIteration),
		fmt.Sprintf("Batches:\t%d (%.2f / iter, %.2f / step)", summary.Batches.Total, summary.Batches.PerIteration, summary.Batches.PerStep),
		fmt.Sprintf("Latency (ms):\tmin %.2f | mean %.2f | median %.2f | p95 %.2f | max %.2f", latency.Min, latency.Mean, latency.Median, latency.P95, latency.Max),
		fmt.Sprintf("Iteration duration (ms):\tmin %.2f | mean %.2f | median %.2f | p95 %.2f | max %.2f", iteration.Min, iteration.Mean, iteration.Median, iteration.P95, iteration.Max),
		fmt.Sprintf("Allocations:\t%d total (%.2f / step)", allocs.Total, allocs.PerStep),
		fmt.Sprintf("Bytes allocated:\t%s (%.2f / step)", formatBytes(int64(allocs.BytesTotal)), allocs.BytesPerStep),
		fmt.Sprintf("Heap delta:\t%s", formatBytes(allocs.HeapAllocDelta)),
		fmt.Sprintf("Steps/sec:\t%.2f", summary.StepsPerSecond),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatBytes(delta int64) string {
	const miB = 1024 * 1024
	sign := ""
	if delta < 0 {
		sign = "-"
		delta = -delta
	}
	return fmt.Sprintf("%s%d B (%.2f MiB)", sign, delta, float64(delta)/miB)
}

func stepsPerSecond(total time.Duration, steps int) float64 {
	if total <= 0 || steps == 0 {
		return 0
	}
	return float64(steps) / total.Seconds()
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(p*float64(len(sorted)-1) + 0.5)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (f benchFixture) newI3() *benchI3 {
	workspaces := make([]state.Workspace, len(f.Workspaces))
	for i, ws := range f.Workspaces {
		ws.Windows = append([]state.Window(nil), ws.Windows...)
		workspaces[i] = ws
	}
	return &benchI3{workspaces: workspaces}
}

func loadFixture(path string, base benchFixture) (benchFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return benchFixture{}, err
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" || looksLikeJSON(data) {
		var payload struct {
			Name       string            `json:"name"`
			Workspaces []state.Workspace `json:"workspaces"`
			Steps      []struct {
				Kind      string       `json:"kind"`
				Workspace int          `json:"workspace"`
				To        int          `json:"to"`
				Window    state.Window `json:"window"`
				Delay     string       `json:"delay"`
			} `json:"steps"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return benchFixture{}, err
		}
		fixture := benchFixture{
			Name:       fallback(payload.Name, filepath.Base(path)),
			Workspaces: payload.Workspaces,
		}
		if len(fixture.Workspaces) == 0 {
			fixture.Workspaces = append([]state.Workspace(nil), base.Workspaces...)
		}
		for _, st := range payload.Steps {
			step := benchStep{
				Kind:      strings.TrimSpace(st.Kind),
				Workspace: st.Workspace,
				To:        st.To,
				Window:    st.Window,
			}
			if st.Delay != "" {
				d, err := time.ParseDuration(st.Delay)
				if err != nil {
					return benchFixture{}, fmt.Errorf("parse delay %q: %w", st.Delay, err)
				}
				step.Delay = d
			}
			fixture.Steps = append(fixture.Steps, step)
		}
		if len(fixture.Steps) == 0 {
			if len(base.Steps) == 0 {
				return benchFixture{}, errors.New("fixture contains no steps")
			}
			fixture.Steps = append([]benchStep(nil), base.Steps...)
		}
		return fixture, nil
	}
	base.Name = filepath.Base(path)
	steps, err := parseStepLog(string(data))
	if err != nil {
		return benchFixture{}, err
	}
	base.Steps = steps
	return base, nil
}

func looksLikeJSON(data []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(data)), "{")
}

// parseStepLog reads one step per line:
//
//	new>>1,Firefox,Mozilla Firefox
//	title>>1,Inbox
//	move>>1,2
//	close>>2
func parseStepLog(input string) ([]benchStep, error) {
	lines := strings.Split(input, "\n")
	steps := make([]benchStep, 0, len(lines))
	for idx, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		kind, payload, _ := strings.Cut(trimmed, ">>")
		kind = strings.TrimSpace(kind)
		if kind == "" {
			return nil, fmt.Errorf("line %d: missing step kind", idx+1)
		}
		fields := strings.Split(payload, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		ws, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: workspace number: %w", idx+1, err)
		}
		step := benchStep{Kind: kind, Workspace: ws}
		switch kind {
		case "new":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: new needs a window class", idx+1)
			}
			step.Window = state.Window{Class: fields[1], Instance: strings.ToLower(fields[1])}
			if len(fields) > 2 {
				step.Window.Name = fields[2]
				step.Window.Title = fields[2]
			}
		case "title":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: title needs a value", idx+1)
			}
			step.Window.Name = fields[1]
		case "move":
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: move needs a target workspace", idx+1)
			}
			to, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: target workspace: %w", idx+1, err)
			}
			step.To = to
		case "close":
		default:
			return nil, fmt.Errorf("line %d: unknown step kind %q", idx+1, kind)
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, errors.New("step log produced no steps")
	}
	return steps, nil
}

func defaultFixture() benchFixture {
	return benchFixture{
		Name: "synthetic-desktop",
		Workspaces: []state.Workspace{
			{Num: 1, Name: "1", Visible: true, Focused: true, Windows: []state.Window{
				{Name: "Mozilla Firefox", Title: "Mozilla Firefox", Instance: "Navigator", Class: "firefox"},
			}},
			{Num: 2, Name: "2", Windows: []state.Window{
				{Name: "bash", Title: "bash", Instance: "x-terminal-emulator", Class: "X-terminal-emulator"},
			}},
			{Num: -1, Name: "mail", Windows: []state.Window{
				{Name: "Inbox", Title: "Inbox", Instance: "Mail", Class: "thunderbird"},
			}},
		},
		Steps: []benchStep{
			{Kind: "new", Workspace: 1, Window: state.Window{Name: "Chromium", Instance: "chromium-browser", Class: "Chromium-browser"}},
			{Kind: "new", Workspace: 2, Window: state.Window{Name: "song.mp3 - VLC media player", Instance: "vlc", Class: "vlc"}},
			{Kind: "title", Workspace: 2, Window: state.Window{Name: "other.mp3 - VLC media player"}},
			{Kind: "new", Workspace: 3, Window: state.Window{Name: "notes.txt", Instance: "gedit", Class: "Gedit"}},
			{Kind: "move", Workspace: 3, To: 1},
			{Kind: "close", Workspace: 1},
			{Kind: "close", Workspace: 2},
		},
	}
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return def
}

func exitErr(err error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		fmt.Fprintf(os.Stderr, "error: %v\n", pathErr)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}
