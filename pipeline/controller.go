// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielhkuo/tallygo/capture"
	"github.com/danielhkuo/tallygo/editor"
	"github.com/danielhkuo/tallygo/logs"
	"github.com/danielhkuo/tallygo/models"
	"github.com/danielhkuo/tallygo/recognition"
)

type Phase string

const (
	Idle        Phase = "idle"
	Capturing   Phase = "capturing"
	Recognizing Phase = "recognizing"
	Ready       Phase = "ready"
	Failed      Phase = "failed"
)

// Operator-visible log messages
const (
	MsgCaptured          = "Image captured successfully"
	MsgRecognized        = "Text recognition completed successfully"
	MsgRecordUpdated     = "Text data updated successfully"
	MsgSubmitted         = "Data successfully submitted to database"
	MsgCameraUnavailable = "Camera access denied or not available"
)

var (
	ErrNotReady = errors.New("nothing to act on in the current state")
	ErrClosed   = errors.New("pipeline is shut down")
)

// Camera is the subset of a capture session the controller drives
type Camera interface {
	Open(ctx context.Context, facing string) error
	ToggleFacing(ctx context.Context) error
	CaptureStill() (*models.CaptureFrame, error)
	Retake()
	Close() error
	Status() capture.Status
	Preview() ([]byte, bool)
}

type Recognizer interface {
	Recognize(ctx context.Context, frame models.CaptureFrame, apiKey string) (models.ExtractedRecord, error)
}

// Operator supplies the identity attached to submissions
type Operator interface {
	OperatorID() string
}

// State is the single view the presentation layer renders
type State struct {
	Phase      Phase                   `json:"phase"`
	Record     *models.ExtractedRecord `json:"record,omitempty"`
	Reason     string                  `json:"reason,omitempty"`
	Generation uint64                  `json:"generation"`
	Mode       editor.Mode             `json:"mode"`
	Camera     capture.Status          `json:"camera"`
}

type Config struct {
	Camera     Camera
	Recognizer Recognizer
	Editor     *editor.Editor
	Log        *logs.Recorder
	Operator   Operator
	APIKey     string
}

// Controller orchestrates capture, recognition, correction and submission.
// Every capture starts a new generation; a recognition result belonging to an
// older generation is dropped.
type Controller struct {
	camera     Camera
	recognizer Recognizer
	editor     *editor.Editor
	log        *logs.Recorder
	operator   Operator
	apiKey     string

	base context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	captureMu sync.Mutex

	mu         sync.Mutex
	phase      Phase
	reason     string
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

func New(cfg Config) *Controller {
	base, stop := context.WithCancel(context.Background())
	return &Controller{
		camera:     cfg.Camera,
		recognizer: cfg.Recognizer,
		editor:     cfg.Editor,
		log:        cfg.Log,
		operator:   cfg.Operator,
		apiKey:     cfg.APIKey,
		base:       base,
		stop:       stop,
		phase:      Idle,
	}
}

func (c *Controller) OpenCamera(ctx context.Context, facing string) error {
	if err := c.camera.Open(ctx, facing); err != nil {
		c.log.Error(fmt.Sprintf("%s: %v", MsgCameraUnavailable, err))
		return err
	}
	c.log.Info("Camera opened (" + c.camera.Status().Facing + ")")
	return nil
}

func (c *Controller) ToggleCamera(ctx context.Context) error {
	if err := c.camera.ToggleFacing(ctx); err != nil {
		if errors.Is(err, capture.ErrDeviceUnavailable) {
			c.log.Error(fmt.Sprintf("%s: %v", MsgCameraUnavailable, err))
		}
		return err
	}
	c.log.Info("Switched camera (" + c.camera.Status().Facing + ")")
	return nil
}

func (c *Controller) CloseCamera() error {
	return c.camera.Close()
}

// Preview returns the frozen still, or the live frame when nothing is frozen
func (c *Controller) Preview() ([]byte, bool) {
	return c.camera.Preview()
}

// Capture freezes a still and starts recognizing it in the background.
// When the camera has no frame yet nothing changes and capture.ErrNotReady is
// returned. Other capture failures move the pipeline to Failed.
func (c *Controller) Capture() error {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	prior, priorGen := c.phase, c.generation
	c.phase = Capturing
	c.mu.Unlock()

	frame, err := c.camera.CaptureStill()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	if errors.Is(err, capture.ErrNotReady) {
		// A recognition or retake that landed meanwhile owns the phase now
		if c.phase == Capturing && c.generation == priorGen {
			c.phase = prior
		}
		c.mu.Unlock()
		return err
	}

	// Any capture supersedes the previous cycle
	c.generation++
	c.cancelLocked()
	c.editor.Clear()

	if err != nil {
		reason := c.failLocked("Capture failed: " + err.Error())
		c.mu.Unlock()
		c.log.Error(reason)
		return nil
	}

	c.phase = Recognizing
	c.reason = ""

	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	gen := c.generation
	c.wg.Add(1)
	c.mu.Unlock()

	c.log.Success(MsgCaptured)
	go c.recognize(ctx, gen, *frame)
	return nil
}

func (c *Controller) recognize(ctx context.Context, gen uint64, frame models.CaptureFrame) {
	defer c.wg.Done()

	rec, err := c.recognizer.Recognize(ctx, frame, c.apiKey)

	c.mu.Lock()
	if gen != c.generation {
		current := c.generation
		c.mu.Unlock()
		slog.Info("discarding stale recognition result", "generation", gen, "current", current, "frame_id", frame.ID)
		return
	}
	c.cancelLocked()

	if err != nil {
		reason := c.failLocked("Recognition failed: " + err.Error())
		c.mu.Unlock()

		var recErr *recognition.Error
		if errors.As(err, &recErr) && recErr.Kind == recognition.KindMalformed {
			slog.Error("unparseable recognition response", "frame_id", frame.ID, "raw", recErr.Raw)
		}
		c.log.Error(reason)
		return
	}

	c.editor.Load(frame.ID, rec)
	c.phase = Ready
	c.reason = ""
	c.mu.Unlock()

	c.log.Success(fmt.Sprintf("%s (%d categories)", MsgRecognized, rec.Len()))
}

// Retake discards the still and any result or error and returns to Idle
func (c *Controller) Retake() {
	c.mu.Lock()
	c.generation++
	c.cancelLocked()
	c.editor.Clear()
	c.camera.Retake()
	c.phase = Idle
	c.reason = ""
	c.mu.Unlock()

	c.log.Info("Retaking photo")
}

// Dismiss acknowledges the error panel
func (c *Controller) Dismiss() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Failed {
		return ErrNotReady
	}
	c.camera.Retake()
	c.phase = Idle
	c.reason = ""
	return nil
}

func (c *Controller) Edit() error {
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.editor.Edit()
}

func (c *Controller) SetField(category, field, value string) error {
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.editor.SetField(category, field, value)
}

func (c *Controller) Save() error {
	if err := c.requireReady(); err != nil {
		return err
	}
	if err := c.editor.Save(); err != nil {
		return err
	}
	c.log.Success(MsgRecordUpdated)
	return nil
}

func (c *Controller) Cancel() error {
	if err := c.requireReady(); err != nil {
		return err
	}
	return c.editor.Cancel()
}

// Submit delivers the committed record. A failure is logged and returned;
// the record and the Ready state are kept so the operator can retry.
func (c *Controller) Submit(ctx context.Context) (models.SubmitRecordResponse, error) {
	if err := c.requireReady(); err != nil {
		return models.SubmitRecordResponse{}, err
	}

	operatorID := models.AnonymousOperator
	if c.operator != nil {
		operatorID = c.operator.OperatorID()
	}

	resp, err := c.editor.Submit(ctx, operatorID)
	if err != nil {
		if !errors.Is(err, editor.ErrSubmitInProgress) {
			c.log.Error("Error submitting data: " + err.Error())
		}
		return resp, err
	}
	c.log.Success(MsgSubmitted)
	return resp, nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	st := State{
		Phase:      c.phase,
		Reason:     c.reason,
		Generation: c.generation,
	}
	if st.Phase == Ready {
		rec := c.editor.Working()
		st.Record = &rec
		st.Mode = c.editor.Mode()
	}
	c.mu.Unlock()

	st.Camera = c.camera.Status()
	return st
}

// Close cancels any recognition in flight, waits for it, and releases the camera.
// Safe to call more than once.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.cancelLocked()
	c.mu.Unlock()

	c.stop()
	c.wg.Wait()
	return c.camera.Close()
}

// Wait blocks until background recognition has finished
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) requireReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != Ready {
		return ErrNotReady
	}
	return nil
}

// failLocked moves to Failed. The caller logs the returned reason once c.mu is released.
func (c *Controller) failLocked(reason string) string {
	c.phase = Failed
	c.reason = reason
	return reason
}

func (c *Controller) cancelLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
