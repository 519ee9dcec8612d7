// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/danielhkuo/tallygo/models"
)

type recordingSubmitter struct {
	mu      sync.Mutex
	calls   []models.ExtractedRecord
	refs    []string
	err     error
	release chan struct{}
	started chan struct{}
}

func (s *recordingSubmitter) Submit(ctx context.Context, ref string, rec models.ExtractedRecord, operatorID string) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, rec)
	s.refs = append(s.refs, ref)
	return s.err
}

func sampleRecord() models.ExtractedRecord {
	var rec models.ExtractedRecord
	rec.Set("PRESIDENT", models.FieldGroup{IDLetter: "A", VoteID: "1", RegID: "100"})
	rec.Set("SECRETARY", models.FieldGroup{IDLetter: "B", VoteID: "2", RegID: "200"})
	rec.Set("TREASURER", models.FieldGroup{IDLetter: "C", VoteID: "3", RegID: "300"})
	return rec
}

func TestEditCancelRestoresRecord(t *testing.T) {
	ed := New(&recordingSubmitter{})
	original := sampleRecord()
	ed.Load("frame-1", original)

	if err := ed.Edit(); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if err := ed.SetField("SECRETARY", models.FieldVoteID, "9"); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	if err := ed.SetField("TREASURER", models.FieldRegID, ""); err != nil {
		t.Fatalf("SetField() error = %v", err)
	}

	committed, _ := ed.Record()
	if !committed.Equal(original) {
		t.Error("SetField must not touch the committed record")
	}

	if err := ed.Cancel(); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	got, _ := ed.Record()
	if !got.Equal(original) {
		t.Errorf("record after cancel = %+v, want %+v", got.Categories(), original.Categories())
	}
	if ed.Mode() != Viewing {
		t.Errorf("Mode() = %v, want viewing", ed.Mode())
	}
}

func TestEditSaveCommits(t *testing.T) {
	ed := New(&recordingSubmitter{})
	ed.Load("frame-1", sampleRecord())

	ed.Edit()
	ed.SetField("PRESIDENT", models.FieldIDLetter, "Z")
	if err := ed.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _ := ed.Record()
	group, _ := got.Get("PRESIDENT")
	if group.IDLetter != "Z" {
		t.Errorf("IDLetter = %q, want Z", group.IDLetter)
	}
	if names := got.Names(); names[0] != "PRESIDENT" || len(names) != 3 {
		t.Errorf("category order changed: %v", names)
	}
}

func TestModeErrors(t *testing.T) {
	ed := New(&recordingSubmitter{})

	if err := ed.Edit(); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Edit() without record = %v, want ErrNoRecord", err)
	}

	ed.Load("frame-1", sampleRecord())

	tests := []struct {
		name string
		fn   func() error
		want error
	}{
		{"set field while viewing", func() error { return ed.SetField("PRESIDENT", models.FieldVoteID, "1") }, ErrNotEditing},
		{"save while viewing", ed.Save, ErrNotEditing},
		{"cancel while viewing", ed.Cancel, ErrNotEditing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	ed.Edit()
	if err := ed.Edit(); !errors.Is(err, ErrAlreadyEditing) {
		t.Errorf("second Edit() = %v, want ErrAlreadyEditing", err)
	}
	if err := ed.SetField("MAYOR", models.FieldVoteID, "1"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("unknown category = %v", err)
	}
	if err := ed.SetField("PRESIDENT", "name", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown field = %v", err)
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	ed := New(&recordingSubmitter{})
	ed.Load("frame-1", sampleRecord())
	ed.Edit()

	var next models.ExtractedRecord
	next.Set("MAYOR", models.FieldGroup{VoteID: "7"})
	ed.Load("frame-2", next)

	got, _ := ed.Record()
	if !got.Equal(next) {
		t.Errorf("Load() should replace the record, got %v", got.Names())
	}
	if ed.Mode() != Viewing {
		t.Error("Load() should leave editing mode")
	}
}

func TestSubmitSendsCommittedRecord(t *testing.T) {
	sub := &recordingSubmitter{}
	ed := New(sub)
	original := sampleRecord()
	ed.Load("frame-1", original)

	ed.Edit()
	ed.SetField("PRESIDENT", models.FieldVoteID, "99")

	resp, err := ed.Submit(context.Background(), "op-1")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !resp.Submitted {
		t.Error("expected submitted: true")
	}
	if len(sub.calls) != 1 || !sub.calls[0].Equal(original) {
		t.Errorf("submitted %+v, want committed record", sub.calls)
	}
	if sub.refs[0] != "frame-1" {
		t.Errorf("ref = %q", sub.refs[0])
	}

	working := ed.Working()
	group, _ := working.Get("PRESIDENT")
	if group.VoteID != "99" {
		t.Error("Submit() must not discard pending edits")
	}
}

func TestSubmitFailureKeepsRecord(t *testing.T) {
	ed := New(&recordingSubmitter{err: errors.New("backend said no")})
	ed.Load("frame-1", sampleRecord())

	if _, err := ed.Submit(context.Background(), "op-1"); err == nil {
		t.Fatal("expected submission error")
	}

	got, ok := ed.Record()
	if !ok || !got.Equal(sampleRecord()) {
		t.Error("record must survive a failed submission")
	}

	if _, err := ed.Submit(context.Background(), "op-1"); err == nil {
		t.Error("retry should reach the submitter again")
	}
}

func TestSubmitWithoutRecord(t *testing.T) {
	ed := New(&recordingSubmitter{})
	if _, err := ed.Submit(context.Background(), "op-1"); !errors.Is(err, ErrNoRecord) {
		t.Errorf("Submit() = %v, want ErrNoRecord", err)
	}
}

func TestSubmitSerialized(t *testing.T) {
	sub := &recordingSubmitter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ed := New(sub)
	ed.Load("frame-1", sampleRecord())

	done := make(chan error, 1)
	go func() {
		_, err := ed.Submit(context.Background(), "op-1")
		done <- err
	}()
	<-sub.started

	if _, err := ed.Submit(context.Background(), "op-1"); !errors.Is(err, ErrSubmitInProgress) {
		t.Errorf("concurrent Submit() = %v, want ErrSubmitInProgress", err)
	}

	close(sub.release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if len(sub.calls) != 1 {
		t.Errorf("submitter called %d times, want 1", len(sub.calls))
	}
}
