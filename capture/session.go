// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/tallygo/models"
)

var (
	ErrDeviceUnavailable = errors.New("camera access denied or not available")
	ErrNotReady          = errors.New("camera has not produced a frame yet")
	ErrSingleDevice      = errors.New("only one camera is available")
	ErrClosed            = errors.New("camera is not open")
)

// Camera acquires video input devices
type Camera interface {
	// Devices lists the available video inputs
	Devices(ctx context.Context) ([]string, error)
	// Open starts streaming from the device matching the facing mode
	Open(ctx context.Context, facing string) (Stream, error)
}

// Stream is a live video feed.
// Stop releases the device; it is called exactly once per opened stream.
type Stream interface {
	// Latest returns the most recent encoded frame, false until one arrives
	Latest() ([]byte, bool)
	Stop() error
}

// Status is what the presentation layer needs to render the capture view
type Status struct {
	Open        bool   `json:"open"`
	Ready       bool   `json:"ready"`
	Frozen      bool   `json:"frozen"`
	CanToggle   bool   `json:"can_toggle"`
	Facing      string `json:"facing,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Session exclusively owns the camera device handle
type Session struct {
	mu          sync.Mutex
	camera      Camera
	stream      Stream
	facing      string
	canToggle   bool
	still       *models.CaptureFrame
	placeholder string
}

func NewSession(camera Camera) *Session {
	return &Session{camera: camera}
}

// Open acquires a device for the preferred facing mode. An already open
// stream is released first. On failure the session shows a placeholder and
// the error wraps ErrDeviceUnavailable.
func (s *Session) Open(ctx context.Context, facing string) error {
	if facing != models.FacingEnvironment {
		facing = models.FacingUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()
	return s.openLocked(ctx, facing)
}

func (s *Session) openLocked(ctx context.Context, facing string) error {
	devices, err := s.camera.Devices(ctx)
	if err == nil && len(devices) == 0 {
		err = errors.New("no video input devices")
	}
	if err != nil {
		s.placeholder = ErrDeviceUnavailable.Error()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	s.canToggle = len(devices) > 1

	stream, err := s.camera.Open(ctx, facing)
	if err != nil {
		s.placeholder = ErrDeviceUnavailable.Error()
		if errors.Is(err, ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	s.stream = stream
	s.facing = facing
	s.placeholder = ""
	s.still = nil

	slog.Info("camera opened", "facing", facing, "devices", len(devices))
	return nil
}

// ToggleFacing releases the stream and reopens it with the opposite facing mode
func (s *Session) ToggleFacing(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return ErrClosed
	}
	if !s.canToggle {
		return ErrSingleDevice
	}

	next := models.FacingEnvironment
	if s.facing == models.FacingEnvironment {
		next = models.FacingUser
	}

	s.closeLocked()
	return s.openLocked(ctx, next)
}

// CaptureStill freezes the current frame as a downsampled JPEG.
// Without a live frame it does nothing and returns ErrNotReady.
func (s *Session) CaptureStill() (*models.CaptureFrame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return nil, ErrNotReady
	}
	raw, ok := s.stream.Latest()
	if !ok {
		return nil, ErrNotReady
	}

	frame, err := encodeStill(raw)
	if err != nil {
		return nil, err
	}
	s.still = &frame

	slog.Info("still captured",
		"frame_id", frame.ID,
		"size", fmt.Sprintf("%dx%d", frame.Width, frame.Height),
		"bytes", humanize.Bytes(uint64(len(frame.Data))),
	)

	out := frame
	return &out, nil
}

// Retake discards the frozen still and returns to the live preview
func (s *Session) Retake() {
	s.mu.Lock()
	s.still = nil
	s.mu.Unlock()
}

// Close releases the device. Safe to call when already closed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	s.still = nil
	if s.stream == nil {
		return nil
	}

	stream := s.stream
	s.stream = nil
	if err := stream.Stop(); err != nil {
		slog.Warn("camera release reported an error", "error", err)
		return err
	}
	slog.Info("camera released", "facing", s.facing)
	return nil
}

// Status reports the capture view state
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Open:        s.stream != nil,
		Frozen:      s.still != nil,
		CanToggle:   s.canToggle && s.stream != nil,
		Placeholder: s.placeholder,
	}
	if s.stream != nil {
		_, st.Ready = s.stream.Latest()
		st.Facing = s.facing
	}
	return st
}

// Preview returns the frozen still if there is one, otherwise the latest live frame
func (s *Session) Preview() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.still != nil {
		return s.still.Data, true
	}
	if s.stream == nil {
		return nil, false
	}
	return s.stream.Latest()
}
