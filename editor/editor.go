// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/danielhkuo/tallygo/models"
)

var (
	ErrNoRecord         = errors.New("no record loaded")
	ErrNotEditing       = errors.New("record is not being edited")
	ErrAlreadyEditing   = errors.New("record is already being edited")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownField     = errors.New("unknown field")
)

type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Submitter delivers a finished record to the ballot backend.
// ref identifies the capture the record came from and keys retries.
type Submitter interface {
	Submit(ctx context.Context, ref string, rec models.ExtractedRecord, operatorID string) error
}

// Editor holds the committed record and an in-progress working copy
type Editor struct {
	mu         sync.Mutex
	submitter  Submitter
	ref        string
	loaded     bool
	record     models.ExtractedRecord
	working    models.ExtractedRecord
	mode       Mode
	submitting bool
}

func New(submitter Submitter) *Editor {
	return &Editor{submitter: submitter}
}

// Load replaces the record wholesale and returns to Viewing
func (e *Editor) Load(ref string, rec models.ExtractedRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ref = ref
	e.loaded = true
	e.record = rec.Clone()
	e.working = models.ExtractedRecord{}
	e.mode = Viewing
}

// Clear drops the record and any pending edits
func (e *Editor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ref = ""
	e.loaded = false
	e.record = models.ExtractedRecord{}
	e.working = models.ExtractedRecord{}
	e.mode = Viewing
}

func (e *Editor) Edit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNoRecord
	}
	if e.mode == Editing {
		return ErrAlreadyEditing
	}
	e.working = e.record.Clone()
	e.mode = Editing
	return nil
}

// SetField changes one field of the working copy
func (e *Editor) SetField(category, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		return ErrNotEditing
	}
	group, ok := e.working.Get(category)
	if !ok {
		return ErrUnknownCategory
	}
	if !group.Set(field, value) {
		return ErrUnknownField
	}
	e.working.Set(category, group)
	return nil
}

// Save commits the working copy
func (e *Editor) Save() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		return ErrNotEditing
	}
	e.record = e.working
	e.working = models.ExtractedRecord{}
	e.mode = Viewing
	return nil
}

// Cancel discards the working copy
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != Editing {
		return ErrNotEditing
	}
	e.working = models.ExtractedRecord{}
	e.mode = Viewing
	return nil
}

// Submit sends the committed record, never the working copy.
// Only one submission runs at a time; a concurrent call gets ErrSubmitInProgress.
// The record is left untouched whatever the outcome.
func (e *Editor) Submit(ctx context.Context, operatorID string) (models.SubmitRecordResponse, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return models.SubmitRecordResponse{}, ErrNoRecord
	}
	if e.submitting {
		e.mu.Unlock()
		return models.SubmitRecordResponse{}, ErrSubmitInProgress
	}
	e.submitting = true
	ref := e.ref
	snapshot := e.record.Clone()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	if err := e.submitter.Submit(ctx, ref, snapshot, operatorID); err != nil {
		slog.Warn("record submission failed", "ref", ref, "error", err)
		return models.SubmitRecordResponse{}, err
	}

	slog.Info("record submitted", "ref", ref, "categories", snapshot.Len(), "operator_id", operatorID)
	return models.SubmitRecordResponse{Submitted: true}, nil
}

// Record returns a copy of the committed record
func (e *Editor) Record() (models.ExtractedRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record.Clone(), e.loaded
}

// Working returns the in-progress copy while editing, otherwise the committed record
func (e *Editor) Working() models.ExtractedRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == Editing {
		return e.working.Clone()
	}
	return e.record.Clone()
}

func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}
