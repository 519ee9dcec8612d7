// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/danielhkuo/tallygo/models"
)

const (
	// MaxDimension bounds the longest side of a still, in pixels
	MaxDimension = 800
	// JPEGQuality is the re-encode quality of a still (0-100)
	JPEGQuality = 70
)

// encodeStill decodes a live frame, fits it within MaxDimension and re-encodes it as JPEG
func encodeStill(raw []byte) (models.CaptureFrame, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return models.CaptureFrame{}, fmt.Errorf("failed to decode camera frame: %w", err)
	}

	img := downsample(src, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return models.CaptureFrame{}, fmt.Errorf("failed to encode still: %w", err)
	}

	b := img.Bounds()
	return models.CaptureFrame{
		ID:         uuid.NewString(),
		Data:       buf.Bytes(),
		MIMEType:   "image/jpeg",
		Width:      b.Dx(),
		Height:     b.Dy(),
		CapturedAt: time.Now(),
	}, nil
}

func downsample(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), limit)
	if w == b.Dx() && h == b.Dy() {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// fitWithin scales w x h so the longest side is at most limit, keeping aspect ratio
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}

	scale := float64(limit) / float64(max(w, h))
	fw := int(math.Round(float64(w) * scale))
	fh := int(math.Round(float64(h) * scale))
	return max(fw, 1), max(fh, 1)
}
