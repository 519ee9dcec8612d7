// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/tallygo/auth"
	"github.com/danielhkuo/tallygo/capture"
	"github.com/danielhkuo/tallygo/editor"
	"github.com/danielhkuo/tallygo/logs"
	"github.com/danielhkuo/tallygo/models"
	"github.com/danielhkuo/tallygo/pipeline"
)

// FakeCamera is an always-ready camera with a single device
type FakeCamera struct {
	mu       sync.Mutex
	open     bool
	frozen   bool
	Releases int
}

func (c *FakeCamera) Open(ctx context.Context, facing string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	return nil
}

func (c *FakeCamera) ToggleFacing(ctx context.Context) error {
	return capture.ErrSingleDevice
}

func (c *FakeCamera) CaptureStill() (*models.CaptureFrame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil, capture.ErrNotReady
	}
	c.frozen = true
	return &models.CaptureFrame{
		ID:       uuid.NewString(),
		Data:     []byte{0xff, 0xd8, 0xff, 0xd9},
		MIMEType: "image/jpeg",
		Width:    800,
		Height:   600,
	}, nil
}

func (c *FakeCamera) Retake() {
	c.mu.Lock()
	c.frozen = false
	c.mu.Unlock()
}

func (c *FakeCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		c.Releases++
	}
	c.open = false
	c.frozen = false
	return nil
}

func (c *FakeCamera) Status() capture.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return capture.Status{Open: c.open, Ready: c.open, Frozen: c.frozen, Facing: models.FacingUser}
}

func (c *FakeCamera) Preview() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return nil, false
	}
	return []byte{0xff, 0xd8, 0xff, 0xd9}, true
}

// StaticRecognizer returns the same record or error for every frame
type StaticRecognizer struct {
	Record models.ExtractedRecord
	Err    error
}

func (r StaticRecognizer) Recognize(ctx context.Context, frame models.CaptureFrame, apiKey string) (models.ExtractedRecord, error) {
	if r.Err != nil {
		return models.ExtractedRecord{}, r.Err
	}
	return r.Record.Clone(), nil
}

// TestStation is a wired station with fakes at the camera and recognition edges
type TestStation struct {
	Session    *auth.Session
	Controller *pipeline.Controller
	Log        *logs.Recorder
	Camera     *FakeCamera
}

// NewTestStation wires a station. The controller is closed when the test ends.
func NewTestStation(t *testing.T, recognizer pipeline.Recognizer, submitter editor.Submitter) *TestStation {
	t.Helper()

	session := auth.NewSession(GetTestConfig().SessionSalt, "")
	recorder := logs.NewRecorder(context.Background(), logs.NewMemoryStore(logs.Namespace))
	camera := &FakeCamera{}

	ctrl := pipeline.New(pipeline.Config{
		Camera:     camera,
		Recognizer: recognizer,
		Editor:     editor.New(submitter),
		Log:        recorder,
		Operator:   session,
		APIKey:     GetTestConfig().APIKey,
	})
	t.Cleanup(func() { ctrl.Close() })

	return &TestStation{
		Session:    session,
		Controller: ctrl,
		Log:        recorder,
		Camera:     camera,
	}
}

// SignIn signs an operator in and returns the Authorization header value
func (s *TestStation) SignIn(t *testing.T, operatorID string) map[string]string {
	t.Helper()
	token, err := s.Session.SignIn(operatorID, "pw")
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
