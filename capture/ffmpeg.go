// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"

	"github.com/danielhkuo/tallygo/models"
)

const maxFrameBytes = 16 << 20

var (
	jpegSOI = []byte{0xff, 0xd8}
	jpegEOI = []byte{0xff, 0xd9}
)

// FFmpegCamera streams a V4L2 device through an ffmpeg subprocess that writes
// MJPEG frames to stdout
type FFmpegCamera struct {
	ffmpegPath string
	deviceGlob string
}

func NewFFmpegCamera(ffmpegPath, deviceGlob string) *FFmpegCamera {
	return &FFmpegCamera{ffmpegPath: ffmpegPath, deviceGlob: deviceGlob}
}

// Devices lists device nodes matching the glob, sorted
func (c *FFmpegCamera) Devices(ctx context.Context) ([]string, error) {
	matches, err := filepath.Glob(c.deviceGlob)
	if err != nil {
		return nil, fmt.Errorf("invalid camera glob '%s': %w", c.deviceGlob, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Open starts ffmpeg on the first device for "user" and the last for "environment"
func (c *FFmpegCamera) Open(ctx context.Context, facing string) (Stream, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrDeviceUnavailable
	}

	device := devices[0]
	if facing == models.FacingEnvironment {
		device = devices[len(devices)-1]
	}

	// The stream outlives the request that opened it; Stop cancels it.
	streamCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(streamCtx, c.ffmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-f", "v4l2",
		"-i", device,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "3",
		"-",
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	s := &ffmpegStream{
		device: device,
		cmd:    cmd,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.read(stdout)

	slog.Info("ffmpeg capture started", "device", device, "pid", cmd.Process.Pid)
	return s, nil
}

type ffmpegStream struct {
	device string
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.RWMutex
	latest []byte

	stopOnce sync.Once
}

func (s *ffmpegStream) read(r io.Reader) {
	defer close(s.done)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 256*1024), maxFrameBytes)
	scanner.Split(splitJPEG)

	for scanner.Scan() {
		frame := append([]byte(nil), scanner.Bytes()...)
		s.mu.Lock()
		s.latest = frame
		s.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("ffmpeg capture stopped", "device", s.device, "error", err)
	}
}

func (s *ffmpegStream) Latest() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != nil
}

func (s *ffmpegStream) Stop() error {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.done
		// ffmpeg exits through the kill signal; that is the expected outcome
		_ = s.cmd.Wait()
		slog.Info("ffmpeg capture stopped", "device", s.device)
	})
	return nil
}

// splitJPEG is a bufio.SplitFunc yielding one complete JPEG (SOI..EOI) per token.
// Bytes before a start-of-image marker are skipped.
func splitJPEG(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := bytes.Index(data, jpegSOI)
	if start < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		// keep a trailing 0xff that may begin the next marker
		if len(data) > 1 {
			return len(data) - 1, nil, nil
		}
		return 0, nil, nil
	}

	end := bytes.Index(data[start+len(jpegSOI):], jpegEOI)
	if end < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		return start, nil, nil
	}

	end += start + len(jpegSOI) + len(jpegEOI)
	return end, data[start:end], nil
}
