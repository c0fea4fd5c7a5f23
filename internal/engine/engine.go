package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cboddy/i3-workspace-names-daemon/internal/config"
	"github.com/cboddy/i3-workspace-names-daemon/internal/ipc"
	"github.com/cboddy/i3-workspace-names-daemon/internal/metrics"
	"github.com/cboddy/i3-workspace-names-daemon/internal/rules"
	"github.com/cboddy/i3-workspace-names-daemon/internal/state"
	"github.com/cboddy/i3-workspace-names-daemon/internal/util"
)

type i3Client interface {
	state.DataSource
	RunCommand(ctx context.Context, command string) error
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	*time.Ticker
}

func (t realTicker) C() <-chan time.Time {
	return t.Ticker.C
}

// stoppedTicker never fires; used when periodic reconciles are disabled.
type stoppedTicker struct{}

func (stoppedTicker) C() <-chan time.Time { return nil }
func (stoppedTicker) Stop()               {}

type subscribeFunc func(ctx context.Context, logger *util.Logger) (<-chan ipc.Event, error)

// DefaultReconcileInterval bounds how stale workspace names can get when an
// event is missed.
const DefaultReconcileInterval = 60 * time.Second

// Engine keeps i3 workspace names in sync with the windows they contain.
type Engine struct {
	client  i3Client
	logger  *util.Logger
	metrics *metrics.Collector
	dryRun  bool

	mu        sync.Mutex
	table     *rules.Table
	lastWorld *state.World
	lastPlan  *Plan
	warned    map[string]struct{}
	history   *renameLog

	// cycle serializes rename cycles between the event loop and control
	// requests.
	cycle sync.Mutex

	interval      time.Duration
	tickerFactory func() ticker
	subscribe     subscribeFunc
}

// New creates a new engine instance.
func New(client i3Client, logger *util.Logger, table *rules.Table, dryRun bool, collector *metrics.Collector) *Engine {
	return &Engine{
		client:    client,
		logger:    logger,
		metrics:   collector,
		dryRun:    dryRun,
		table:     table,
		warned:    make(map[string]struct{}),
		history:   newRenameLog(0),
		interval:  DefaultReconcileInterval,
		subscribe: ipc.Subscribe,
	}
}

// SetReconcileInterval changes the periodic reconcile interval. Zero disables
// periodic reconciles.
func (e *Engine) SetReconcileInterval(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.interval = d
}

// ReloadTable swaps the compiled rule table. The next cycle uses it.
func (e *Engine) ReloadTable(table *rules.Table) {
	e.mu.Lock()
	e.table = table
	e.warned = make(map[string]struct{})
	e.mu.Unlock()
	e.logger.Infof("reloaded %d rules", len(table.Entries()))
}

// Table returns the compiled rule table in use.
func (e *Engine) Table() *rules.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table
}

// Options returns the label options of the active table.
func (e *Engine) Options() config.Options {
	return e.Table().Options()
}

// DryRun reports whether batches are logged instead of executed.
func (e *Engine) DryRun() bool {
	return e.dryRun
}

// Run renames once, then renames again on every relevant window event until
// context cancellation.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.reconcileAndApply(ctx, "startup"); err != nil {
		return err
	}
	tick := e.newTicker()
	defer tick.Stop()

	events, err := e.subscribeEvents(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to window events: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C():
			e.logger.Debugf("periodic reconcile tick")
			if err := e.reconcileAndApply(ctx, "periodic"); err != nil {
				e.logCycleError(ctx, "periodic reconcile", err)
			}
		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("event stream closed")
			}
			e.trace("event.received", map[string]any{
				"kind":   ev.Kind,
				"window": ev.Window,
			})
			if !isInteresting(ev.Kind) {
				continue
			}
			if err := e.reconcileAndApply(ctx, "window::"+ev.Kind); err != nil {
				e.logCycleError(ctx, "rename", err)
			}
		}
	}
}

func (e *Engine) logCycleError(ctx context.Context, what string, err error) {
	if ctx.Err() != nil {
		e.logger.Debugf("%s aborted: %v", what, err)
		return
	}
	e.logger.Errorf("%s failed: %v", what, err)
}

func (e *Engine) newTicker() ticker {
	if e.tickerFactory != nil {
		return e.tickerFactory()
	}
	e.mu.Lock()
	interval := e.interval
	e.mu.Unlock()
	if interval <= 0 {
		return stoppedTicker{}
	}
	return realTicker{time.NewTicker(interval)}
}

func (e *Engine) subscribeEvents(ctx context.Context) (<-chan ipc.Event, error) {
	if e.subscribe != nil {
		return e.subscribe(ctx, e.logger)
	}
	return ipc.Subscribe(ctx, e.logger)
}

// Reconcile triggers a manual rename cycle.
func (e *Engine) Reconcile(ctx context.Context) error {
	return e.reconcileAndApply(ctx, "manual")
}

func (e *Engine) reconcileAndApply(ctx context.Context, reason string) error {
	e.cycle.Lock()
	defer e.cycle.Unlock()

	world, err := state.NewWorld(ctx, e.client)
	if err != nil {
		return fmt.Errorf("snapshot workspaces: %w", err)
	}
	e.mu.Lock()
	prev := e.lastWorld
	e.lastWorld = world
	table := e.table
	e.mu.Unlock()

	e.trace("world.reconciled", map[string]any{
		"reason":     reason,
		"workspaces": len(world.Workspaces),
		"windows":    world.WindowCount(),
		"delta":      worldDelta(prev, world),
	})

	plan := BuildPlan(world.Workspaces, table, table.Options())
	e.mu.Lock()
	e.lastPlan = &plan
	e.mu.Unlock()
	e.observeLabels(plan)
	return e.apply(ctx, reason, plan)
}

func (e *Engine) observeLabels(plan Plan) {
	for _, l := range plan.Labels {
		res := l.Resolution
		if !res.Fallback {
			e.metrics.RecordMatch(res.Pattern)
			continue
		}
		e.metrics.RecordFallback()
		if res.Unknown {
			continue
		}
		key := string(res.Field) + "=" + l.Window.Value(res.Field)
		e.mu.Lock()
		_, seen := e.warned[key]
		e.warned[key] = struct{}{}
		e.mu.Unlock()
		if !seen {
			e.logger.Warnf("no rule matched window %s on workspace %d", key, l.Workspace)
		}
	}
}

func (e *Engine) apply(ctx context.Context, reason string, plan Plan) error {
	e.trace("plan.built", map[string]any{
		"renames":     plan.Renames,
		"activations": plan.Activations,
	})
	if plan.Empty() {
		e.metrics.RecordSkipped()
		return nil
	}
	command := plan.Command()
	record := RenameRecord{
		Timestamp: time.Now(),
		Reason:    reason,
		Renames:   plan.Renames,
		Command:   command,
	}
	if e.dryRun {
		record.Status = RenameStatusDryRun
		e.history.record(record)
		e.logger.Infof("dry-run: %s", command)
		return nil
	}
	if err := e.client.RunCommand(ctx, command); err != nil {
		record.Status = RenameStatusError
		record.Error = err.Error()
		e.history.record(record)
		e.metrics.RecordFailed()
		return err
	}
	record.Status = RenameStatusApplied
	e.history.record(record)
	e.metrics.RecordApplied()
	for _, r := range plan.Renames {
		e.logger.Debugf("renamed workspace %q to %q", r.From, r.To)
	}
	e.logger.Infof("renamed %d workspaces (%s)", len(plan.Renames), reason)
	return nil
}

// PreviewPlan snapshots i3 and returns the batch the next cycle would send,
// without sending it.
func (e *Engine) PreviewPlan(ctx context.Context) (Plan, error) {
	world, err := state.NewWorld(ctx, e.client)
	if err != nil {
		return Plan{}, fmt.Errorf("snapshot workspaces: %w", err)
	}
	e.mu.Lock()
	e.lastWorld = world
	table := e.table
	e.mu.Unlock()
	return BuildPlan(world.Workspaces, table, table.Options()), nil
}

// LastWorld returns the most recent world snapshot.
func (e *Engine) LastWorld() *state.World {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.CloneWorld(e.lastWorld)
}

// LastPlan returns the plan built by the most recent cycle.
func (e *Engine) LastPlan() (Plan, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastPlan == nil {
		return Plan{}, false
	}
	return *e.lastPlan, true
}

// RenameHistory returns the recent rename batches, oldest first.
func (e *Engine) RenameHistory() []RenameRecord {
	return e.history.snapshot()
}

// Metrics returns the collector the engine reports to.
func (e *Engine) Metrics() *metrics.Collector {
	return e.metrics
}

func isInteresting(kind string) bool {
	switch kind {
	case "new", "close", "move", "title":
		return true
	default:
		return false
	}
}

func (e *Engine) trace(event string, fields map[string]any) {
	if !e.logger.Enabled(util.LevelTrace) {
		return
	}
	e.logger.Tracef("%s %s", event, formatTraceFields(fields))
}

func formatTraceFields(fields map[string]any) string {
	if len(fields) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		val, err := json.Marshal(fields[k])
		if err != nil {
			b.WriteString(strconv.Quote(fmt.Sprintf("<marshal error: %v>", err)))
			continue
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.String()
}

func worldDelta(prev, curr *state.World) map[string]any {
	if curr == nil {
		return map[string]any{"changed": false}
	}
	if prev == nil {
		return map[string]any{
			"initial": true,
			"changed": true,
		}
	}
	delta := make(map[string]any)
	changed := false

	prevNames := make(map[string]struct{}, len(prev.Workspaces))
	for _, ws := range prev.Workspaces {
		prevNames[ws.Name] = struct{}{}
	}
	currNames := make(map[string]struct{}, len(curr.Workspaces))
	for _, ws := range curr.Workspaces {
		currNames[ws.Name] = struct{}{}
	}
	var added, removed []string
	for name := range currNames {
		if _, ok := prevNames[name]; !ok {
			added = append(added, name)
		}
	}
	for name := range prevNames {
		if _, ok := currNames[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	if len(added) > 0 {
		delta["workspacesAdded"] = added
		changed = true
	}
	if len(removed) > 0 {
		delta["workspacesRemoved"] = removed
		changed = true
	}

	if p, c := prev.WindowCount(), curr.WindowCount(); p != c {
		delta["windows"] = map[string]int{"from": p, "to": c}
		changed = true
	}

	prevFocus, currFocus := focusedName(prev), focusedName(curr)
	if prevFocus != currFocus {
		delta["focused"] = map[string]string{"from": prevFocus, "to": currFocus}
		changed = true
	}

	delta["changed"] = changed
	return delta
}

func focusedName(w *state.World) string {
	if ws := w.FocusedWorkspace(); ws != nil {
		return ws.Name
	}
	return ""
}
