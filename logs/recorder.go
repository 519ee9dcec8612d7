// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/tallygo/models"
)

const (
	// Namespace is the volatile store key holding the entries
	Namespace = "tallygo_logs"
	// MaxEntries is the number of most recent entries kept
	MaxEntries = 50

	storeTimeout = 2 * time.Second
)

// Recorder is a bounded, append-only log of operator-visible events.
// Entries are kept most recent first and mirrored to a Store after every change.
type Recorder struct {
	mu      sync.Mutex
	entries []models.LogEntry
	lastID  int64
	store   Store
	now     func() time.Time
}

// NewRecorder creates a recorder and recovers any entries already in the store
func NewRecorder(ctx context.Context, store Store) *Recorder {
	r := &Recorder{
		store: store,
		now:   time.Now,
	}

	entries, err := store.Load(ctx)
	if err != nil {
		slog.Warn("failed to recover operator log", "error", err)
		return r
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	r.entries = entries
	for _, e := range entries {
		if e.ID > r.lastID {
			r.lastID = e.ID
		}
	}
	if len(entries) > 0 {
		slog.Info("operator log recovered", "entries", len(entries))
	}
	return r
}

// Info records a neutral event
func (r *Recorder) Info(message string) models.LogEntry {
	return r.Append(models.SeverityInfo, message)
}

// Success records a completed step
func (r *Recorder) Success(message string) models.LogEntry {
	return r.Append(models.SeveritySuccess, message)
}

// Error records a failure
func (r *Recorder) Error(message string) models.LogEntry {
	return r.Append(models.SeverityError, message)
}

// Append adds an entry, evicting the oldest beyond MaxEntries.
// The trim is computed from the full current sequence under the lock, and the
// store is written under the same lock so a slower save never overwrites a newer one.
func (r *Recorder) Append(severity, message string) models.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	entry := models.LogEntry{
		ID:        id,
		Message:   message,
		Severity:  severity,
		Timestamp: now,
	}

	next := make([]models.LogEntry, 0, min(len(r.entries)+1, MaxEntries))
	next = append(next, entry)
	next = append(next, r.entries[:min(len(r.entries), MaxEntries-1)]...)
	r.entries = next

	mirror(entry)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := r.store.Save(ctx, r.entries); err != nil {
		slog.Warn("failed to persist operator log", "error", err)
	}

	return entry
}

// Entries returns a copy of the entries, most recent first
func (r *Recorder) Entries() []models.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Clear drops every entry and empties the store
func (r *Recorder) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return r.store.Clear(ctx)
}

func mirror(e models.LogEntry) {
	if e.Severity == models.SeverityError {
		slog.Error("operator log", "type", e.Severity, "message", e.Message)
		return
	}
	slog.Info("operator log", "type", e.Severity, "message", e.Message)
}
