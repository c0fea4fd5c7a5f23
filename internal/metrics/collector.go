package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector aggregates counters for label resolution and rename batches.
type Collector struct {
	mu       sync.RWMutex
	enabled  bool
	started  time.Time
	patterns map[string]*PatternMetrics
	batches  BatchMetrics
	fallback uint64
}

// PatternMetrics counts how often a rule pattern labelled a window.
type PatternMetrics struct {
	Pattern     string    `json:"pattern"`
	Matched     uint64    `json:"matched"`
	LastMatched time.Time `json:"lastMatched,omitempty"`
}

// BatchMetrics counts rename batches sent to i3.
type BatchMetrics struct {
	Applied     uint64    `json:"applied"`
	Failed      uint64    `json:"failed"`
	Skipped     uint64    `json:"skipped"`
	LastApplied time.Time `json:"lastApplied,omitempty"`
	LastFailed  time.Time `json:"lastFailed,omitempty"`
}

// Totals aggregates counters across all patterns in a snapshot.
type Totals struct {
	Matched   uint64 `json:"matched"`
	Fallbacks uint64 `json:"fallbacks"`
}

// Snapshot is the serializable view of the current metrics state.
type Snapshot struct {
	Enabled  bool             `json:"enabled"`
	Started  time.Time        `json:"started,omitempty"`
	Totals   Totals           `json:"totals"`
	Batches  BatchMetrics     `json:"batches"`
	Patterns []PatternMetrics `json:"patterns,omitempty"`
}

// NewCollector returns a collector with the provided opt-in state.
func NewCollector(enabled bool) *Collector {
	c := &Collector{}
	c.SetEnabled(enabled)
	return c
}

// Enabled reports whether collection is currently active.
func (c *Collector) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SetEnabled toggles collection, resetting counters when enabling.
func (c *Collector) SetEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	c.batches = BatchMetrics{}
	c.fallback = 0
	if !enabled {
		c.patterns = nil
		c.started = time.Time{}
		return
	}
	c.started = time.Now()
	c.patterns = make(map[string]*PatternMetrics)
}

// RecordMatch increments the matched counter for a pattern.
func (c *Collector) RecordMatch(pattern string) {
	c.update(func(now time.Time) {
		if c.patterns == nil {
			c.patterns = make(map[string]*PatternMetrics)
		}
		m, ok := c.patterns[pattern]
		if !ok {
			m = &PatternMetrics{Pattern: pattern}
			c.patterns[pattern] = m
		}
		m.Matched++
		m.LastMatched = now
	})
}

// RecordFallback counts a window no rule could label.
func (c *Collector) RecordFallback() {
	c.update(func(time.Time) { c.fallback++ })
}

// RecordApplied counts a rename batch accepted by i3.
func (c *Collector) RecordApplied() {
	c.update(func(now time.Time) {
		c.batches.Applied++
		c.batches.LastApplied = now
	})
}

// RecordFailed counts a rename batch rejected by i3.
func (c *Collector) RecordFailed() {
	c.update(func(now time.Time) {
		c.batches.Failed++
		c.batches.LastFailed = now
	})
}

// RecordSkipped counts a snapshot that needed no renames.
func (c *Collector) RecordSkipped() {
	c.update(func(time.Time) { c.batches.Skipped++ })
}

func (c *Collector) update(mutate func(time.Time)) {
	if c == nil {
		return
	}
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	mutate(now)
}

// Snapshot returns the current counters for serialization or display.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{Enabled: c.enabled}
	if !c.enabled {
		return snap
	}
	snap.Started = c.started
	snap.Batches = c.batches
	snap.Totals.Fallbacks = c.fallback
	if len(c.patterns) == 0 {
		return snap
	}
	snap.Patterns = make([]PatternMetrics, 0, len(c.patterns))
	for _, m := range c.patterns {
		snap.Patterns = append(snap.Patterns, *m)
		snap.Totals.Matched += m.Matched
	}
	sort.Slice(snap.Patterns, func(i, j int) bool {
		if snap.Patterns[i].Matched == snap.Patterns[j].Matched {
			return snap.Patterns[i].Pattern < snap.Patterns[j].Pattern
		}
		return snap.Patterns[i].Matched > snap.Patterns[j].Matched
	})
	return snap
}
