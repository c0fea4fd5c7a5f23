package engine

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/icons"
	"github.com/cboddy/i3-workspace-names-daemon/internal/ipc"
	"github.com/cboddy/i3-workspace-names-daemon/internal/metrics"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

var renameCmd = regexp.MustCompile(`^rename workspace "([^"]*)" to "([^"]*)"$`)

type fakeI3 struct {
	mu        sync.Mutex
	tree      []state.TreeWorkspace
	statuses  []state.WorkspaceStatus
	commands  []string
	failWith  error
	treeCalls int
}

func (f *fakeI3) ListTreeWorkspaces(context.Context) ([]state.TreeWorkspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.treeCalls++
	out := make([]state.TreeWorkspace, len(f.tree))
	for i, tw := range f.tree {
		tw.Windows = append([]state.Window(nil), tw.Windows...)
		out[i] = tw
	}
	return out, nil
}

func (f *fakeI3) ListWorkspaceStatus(context.Context) ([]state.WorkspaceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]state.WorkspaceStatus(nil), f.statuses...), nil
}

// RunCommand records the batch and applies its renames.
func (f *fakeI3) RunCommand(_ context.Context, command string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, command)
	if f.failWith != nil {
		return f.failWith
	}
	for _, part := range strings.Split(command, ";") {
		m := renameCmd.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		for i := range f.tree {
			if f.tree[i].Name == m[1] {
				f.tree[i].Name = m[2]
			}
		}
		for i := range f.statuses {
			if f.statuses[i].Name == m[1] {
				f.statuses[i].Name = m[2]
			}
		}
	}
	return nil
}

func (f *fakeI3) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeI3) addWindow(workspace int, w state.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tree[workspace].Windows = append(f.tree[workspace].Windows, w)
}

func newFakeI3() *fakeI3 {
	return &fakeI3{
		tree: []state.TreeWorkspace{
			{Name: "1", Windows: []state.Window{win("firefox")}},
			{Name: "2", Windows: []state.Window{win("vlc")}},
			{Name: "mail", Windows: []state.Window{win("thunderbird")}},
		},
		statuses: []state.WorkspaceStatus{
			{Num: 1, Name: "1", Visible: true, Focused: true},
			{Num: 2, Name: "2", Visible: true},
			{Num: -1, Name: "mail"},
		},
	}
}

type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time, 1)}
}

func (t *manualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *manualTicker) Stop() {}

func (t *manualTicker) Tick() {
	t.ch <- time.Now()
}

func waitForCondition(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func newTestEngine(t *testing.T, client i3Client, dryRun bool, logs *bytes.Buffer) *Engine {
	t.Helper()
	var logger *util.Logger
	if logs != nil {
		logger = util.NewLoggerWithWriter(util.LevelDebug, logs)
	}
	opts := config.DefaultOptions()
	table := rules.Compile(config.Default(), icons.Default(), opts)
	return New(client, logger, table, dryRun, metrics.NewCollector(true))
}

func TestReconcileRenamesAndActivates(t *testing.T) {
	fake := newFakeI3()
	eng := newTestEngine(t, fake, false, nil)
	if err := eng.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	want := []string{
		"rename workspace \"1\" to \"1: \uf269\";rename workspace \"2\" to \"2: \uf04b\";" +
			"workspace \"1: \uf269\";workspace \"2: \uf04b\";workspace \"1: \uf269\"",
	}
	if diff := cmp.Diff(want, fake.sent()); diff != "" {
		t.Fatalf("unexpected commands (-want +got):\n%s", diff)
	}
	history := eng.RenameHistory()
	if len(history) != 1 || history[0].Status != RenameStatusApplied || history[0].Reason != "manual" {
		t.Fatalf("unexpected history: %+v", history)
	}
	snap := eng.Metrics().Snapshot()
	if snap.Batches.Applied != 1 || snap.Totals.Matched != 2 {
		t.Fatalf("unexpected metrics: %#v", snap)
	}
}

func TestReconcileSkipsUnchangedNames(t *testing.T) {
	fake := newFakeI3()
	eng := newTestEngine(t, fake, false, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := eng.Reconcile(ctx); err != nil {
			t.Fatalf("Reconcile #%d: %v", i, err)
		}
	}
	if got := len(fake.sent()); got != 1 {
		t.Fatalf("expected a single batch, got %d: %v", got, fake.sent())
	}
	if snap := eng.Metrics().Snapshot(); snap.Batches.Skipped != 2 {
		t.Fatalf("expected two skipped cycles, got %#v", snap.Batches)
	}
	plan, ok := eng.LastPlan()
	if !ok || !plan.Empty() {
		t.Fatalf("expected empty last plan, got %+v", plan)
	}
}

func TestDryRunDoesNotExecute(t *testing.T) {
	fake := newFakeI3()
	var logs bytes.Buffer
	eng := newTestEngine(t, fake, true, &logs)
	if err := eng.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(fake.sent()) != 0 {
		t.Fatalf("dry-run must not send commands: %v", fake.sent())
	}
	if !strings.Contains(logs.String(), "dry-run: rename workspace") {
		t.Fatalf("expected dry-run log, got %q", logs.String())
	}
	history := eng.RenameHistory()
	if len(history) != 1 || history[0].Status != RenameStatusDryRun {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestRunCommandFailureIsRecorded(t *testing.T) {
	fake := newFakeI3()
	fake.failWith = errors.New("ipc closed")
	eng := newTestEngine(t, fake, false, nil)
	err := eng.Reconcile(context.Background())
	if !errors.Is(err, fake.failWith) {
		t.Fatalf("expected command error, got %v", err)
	}
	history := eng.RenameHistory()
	if len(history) != 1 || history[0].Status != RenameStatusError || history[0].Error != "ipc closed" {
		t.Fatalf("unexpected history: %+v", history)
	}
	if snap := eng.Metrics().Snapshot(); snap.Batches.Failed != 1 || snap.Batches.Applied != 0 {
		t.Fatalf("unexpected metrics: %#v", snap.Batches)
	}
}

func TestUnmatchedWindowWarnsOnce(t *testing.T) {
	fake := newFakeI3()
	fake.tree[1].Windows = append(fake.tree[1].Windows, win("giregox"))
	var logs bytes.Buffer
	eng := newTestEngine(t, fake, false, &logs)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := eng.Reconcile(ctx); err != nil {
			t.Fatalf("Reconcile: %v", err)
		}
	}
	if got := strings.Count(logs.String(), "no rule matched window name=giregox"); got != 1 {
		t.Fatalf("expected one warning, got %d in %q", got, logs.String())
	}
	if snap := eng.Metrics().Snapshot(); snap.Totals.Fallbacks != 2 {
		t.Fatalf("expected fallback counted per cycle, got %#v", snap.Totals)
	}

	eng.ReloadTable(eng.Table())
	if err := eng.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := strings.Count(logs.String(), "no rule matched window name=giregox"); got != 2 {
		t.Fatalf("expected reload to reset warnings, got %d", got)
	}
}

func TestReloadTableAppliesNewRules(t *testing.T) {
	fake := newFakeI3()
	eng := newTestEngine(t, fake, false, nil)
	ctx := context.Background()
	if err := eng.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	cfg, err := config.Parse([]byte(`{"firefox": "globe"}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	opts := config.DefaultOptions()
	opts.Delimiter = " "
	eng.ReloadTable(rules.Compile(cfg, icons.Default(), opts))
	if eng.Options().Delimiter != " " {
		t.Fatalf("expected reloaded options")
	}
	if err := eng.Reconcile(ctx); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	sent := fake.sent()
	if len(sent) != 2 {
		t.Fatalf("expected a second batch, got %v", sent)
	}
	if !strings.Contains(sent[1], "rename workspace \"1: \uf269\" to \"1: \uf0ac\"") {
		t.Fatalf("unexpected rename after reload: %q", sent[1])
	}
	if !strings.Contains(sent[1], "rename workspace \"2: \uf04b\" to \"2: vlc\"") {
		t.Fatalf("unexpected rename after reload: %q", sent[1])
	}
}

func TestPreviewPlanDoesNotExecute(t *testing.T) {
	fake := newFakeI3()
	eng := newTestEngine(t, fake, false, nil)
	plan, err := eng.PreviewPlan(context.Background())
	if err != nil {
		t.Fatalf("PreviewPlan: %v", err)
	}
	if len(plan.Renames) != 2 || len(fake.sent()) != 0 {
		t.Fatalf("unexpected preview %+v (sent %v)", plan, fake.sent())
	}
	if world := eng.LastWorld(); world == nil || len(world.Workspaces) != 3 {
		t.Fatalf("expected preview to refresh world, got %+v", world)
	}
	if _, ok := eng.LastPlan(); ok {
		t.Fatalf("preview must not replace the applied plan")
	}
}

func TestRunRenamesOnWindowEvents(t *testing.T) {
	fake := newFakeI3()
	eng := newTestEngine(t, fake, false, nil)
	tick := newManualTicker()
	eng.tickerFactory = func() ticker { return tick }
	events := make(chan ipc.Event)
	eng.subscribe = func(context.Context, *util.Logger) (<-chan ipc.Event, error) {
		return events, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	waitForCondition(t, time.Second, func() bool { return len(fake.sent()) == 1 })

	fake.addWindow(1, win("firefox"))
	events <- ipc.Event{Kind: "focus"}
	events <- ipc.Event{Kind: "new", Window: win("firefox")}
	waitForCondition(t, time.Second, func() bool { return len(fake.sent()) == 2 })
	if got := fake.sent()[1]; !strings.HasPrefix(got, "rename workspace \"2: \uf04b\" to \"2: \uf04b|\uf269\"") {
		t.Fatalf("unexpected batch after new window: %q", got)
	}

	fake.mu.Lock()
	calls := fake.treeCalls
	fake.mu.Unlock()
	tick.Tick()
	waitForCondition(t, time.Second, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return fake.treeCalls > calls
	})

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context cancellation, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if got := len(fake.sent()); got != 2 {
		t.Fatalf("focus event and idle tick must not send commands, got %d", got)
	}
}

func TestRunFailsWhenEventStreamCloses(t *testing.T) {
	eng := newTestEngine(t, newFakeI3(), false, nil)
	eng.tickerFactory = func() ticker { return newManualTicker() }
	events := make(chan ipc.Event)
	close(events)
	eng.subscribe = func(context.Context, *util.Logger) (<-chan ipc.Event, error) {
		return events, nil
	}
	err := eng.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "event stream closed") {
		t.Fatalf("expected closed stream error, got %v", err)
	}
}

func TestFormatTraceFields(t *testing.T) {
	got := formatTraceFields(map[string]any{"b": 2, "a": "x", "c": []string{"y"}})
	if want := `{"a":"x","b":2,"c":["y"]}`; got != want {
		t.Fatalf("formatTraceFields = %s, want %s", got, want)
	}
	if got := formatTraceFields(nil); got != "{}" {
		t.Fatalf("empty fields = %s", got)
	}
}

func TestWorldDelta(t *testing.T) {
	prev := &state.World{Workspaces: []state.Workspace{
		{Num: 1, Name: "1", Focused: true, Windows: []state.Window{win("a")}},
		{Num: 2, Name: "2"},
	}}
	curr := &state.World{Workspaces: []state.Workspace{
		{Num: 1, Name: "1: a", Windows: []state.Window{win("a"), win("b")}},
		{Num: 2, Name: "2", Focused: true},
	}}
	delta := worldDelta(prev, curr)
	want := map[string]any{
		"changed":           true,
		"workspacesAdded":   []string{"1: a"},
		"workspacesRemoved": []string{"1"},
		"windows":           map[string]int{"from": 1, "to": 2},
		"focused":           map[string]string{"from": "1", "to": "2"},
	}
	if diff := cmp.Diff(want, delta); diff != "" {
		t.Fatalf("unexpected delta (-want +got):\n%s", diff)
	}
	if d := worldDelta(nil, curr); d["initial"] != true {
		t.Fatalf("expected initial delta, got %v", d)
	}
	if d := worldDelta(curr, state.CloneWorld(curr)); d["changed"] != false {
		t.Fatalf("expected no change, got %v", d)
	}
}
