package engine

import (
	"sync"
	"time"
)

type RenameStatus string

const (
	RenameStatusApplied RenameStatus = "applied"
	RenameStatusDryRun  RenameStatus = "dry-run"
	RenameStatusError   RenameStatus = "error"

	renameHistoryLimit = 128
)

// RenameRecord is one rename batch handed to i3.
type RenameRecord struct {
	Timestamp time.Time    `json:"timestamp"`
	Reason    string       `json:"reason"`
	Status    RenameStatus `json:"status"`
	Renames   []Rename     `json:"renames,omitempty"`
	Command   string       `json:"command"`
	Error     string       `json:"error,omitempty"`
}

type renameLog struct {
	mu      sync.Mutex
	entries []RenameRecord
	limit   int
}

func newRenameLog(limit int) *renameLog {
	if limit <= 0 {
		limit = renameHistoryLimit
	}
	return &renameLog{limit: limit}
}

func (l *renameLog) record(entry RenameRecord) {
	if l == nil {
		return
	}
	entry.Renames = append([]Rename(nil), entry.Renames...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == l.limit {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.limit-1]
	}
	l.entries = append(l.entries, entry)
}

func (l *renameLog) snapshot() []RenameRecord {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	out := make([]RenameRecord, len(l.entries))
	for i, entry := range l.entries {
		entry.Renames = append([]Rename(nil), entry.Renames...)
		out[i] = entry
	}
	return out
}
