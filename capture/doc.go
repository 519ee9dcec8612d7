// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package capture owns the station camera and produces still frames for
recognition.

A Session holds at most one open Stream. Opening, toggling the facing mode and
closing all release the previous stream before acquiring another, so the
device handle is never leaked:

	s := capture.NewSession(capture.NewFFmpegCamera("ffmpeg", "/dev/video*"))
	if err := s.Open(ctx, models.FacingEnvironment); err != nil {
		// errors.Is(err, capture.ErrDeviceUnavailable); Status().Placeholder is set
	}
	defer s.Close()

	frame, err := s.CaptureStill()

# Stills

CaptureStill decodes the latest live frame, scales it so the longest side is at
most MaxDimension pixels and re-encodes it as JPEG at JPEGQuality. Before the
first live frame arrives it returns ErrNotReady and leaves the view unchanged.

# Facing modes

"user" selects the first matching device node and "environment" the last.
ToggleFacing is only available when more than one device was found at open
time.

# FFmpeg

FFmpegCamera runs ffmpeg against a V4L2 node and splits the MJPEG output on
start/end-of-image markers. Only the most recent frame is kept.
*/
package capture
