// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/tallygo/models"
)

func TestRecorderKeepsMostRecentFifty(t *testing.T) {
	store := NewMemoryStore(Namespace)
	rec := NewRecorder(context.Background(), store)

	total := 75
	for i := 0; i < total; i++ {
		rec.Info(fmt.Sprintf("event %d", i))
	}

	entries := rec.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(entries))
	}

	// Reverse-chronological: newest first
	for i, e := range entries {
		want := fmt.Sprintf("event %d", total-1-i)
		if e.Message != want {
			t.Errorf("entries[%d] = %q, want %q", i, e.Message, want)
		}
		if i > 0 && e.ID >= entries[i-1].ID {
			t.Errorf("entries[%d].ID = %d not older than entries[%d].ID = %d", i, e.ID, i-1, entries[i-1].ID)
		}
	}

	stored, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stored) != MaxEntries || stored[0].Message != entries[0].Message {
		t.Errorf("store not mirrored: %d entries, first %q", len(stored), stored[0].Message)
	}
}

func TestRecorderIDsAreMonotonic(t *testing.T) {
	rec := NewRecorder(context.Background(), NewMemoryStore(Namespace))
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	a := rec.Info("a")
	b := rec.Success("b")
	c := rec.Error("c")

	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Errorf("ids not increasing under a frozen clock: %d, %d, %d", a.ID, b.ID, c.ID)
	}
	if c.Severity != models.SeverityError || b.Severity != models.SeveritySuccess {
		t.Errorf("unexpected severities %q %q", b.Severity, c.Severity)
	}
}

func TestRecorderRecoversFromStore(t *testing.T) {
	store := NewMemoryStore(Namespace)
	first := NewRecorder(context.Background(), store)
	first.Info("before reload")
	last := first.Success("still before reload")

	second := NewRecorder(context.Background(), store)
	entries := second.Entries()
	if len(entries) != 2 || entries[0].Message != "still before reload" {
		t.Fatalf("unexpected recovered entries: %+v", entries)
	}

	next := second.Info("after reload")
	if next.ID <= last.ID {
		t.Errorf("id after reload %d should exceed %d", next.ID, last.ID)
	}
}

func TestRecorderConcurrentAppends(t *testing.T) {
	store := NewMemoryStore(Namespace)
	rec := NewRecorder(context.Background(), store)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec.Info(fmt.Sprintf("worker %d", i))
		}(i)
	}
	wg.Wait()

	if got := len(rec.Entries()); got != 40 {
		t.Errorf("expected 40 entries, got %d", got)
	}
	stored, _ := store.Load(context.Background())
	if len(stored) != 40 {
		t.Errorf("store lost entries: %d", len(stored))
	}

	seen := make(map[int64]bool)
	for _, e := range rec.Entries() {
		if seen[e.ID] {
			t.Errorf("duplicate id %d", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestRecorderClear(t *testing.T) {
	store := NewMemoryStore(Namespace)
	rec := NewRecorder(context.Background(), store)
	rec.Info("something")

	if err := rec.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if len(rec.Entries()) != 0 {
		t.Error("entries remain after Clear()")
	}
	stored, _ := store.Load(context.Background())
	if len(stored) != 0 {
		t.Error("store not emptied after Clear()")
	}
}
