// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tallygo/models"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

const (
	IdempotencyHeader = "Idempotency-Key"

	maxBodyBytes = 64 << 10
)

var ErrSubmission = errors.New("ballot submission failed")

// Error is a failed delivery. Status is zero when the backend was never reached.
type Error struct {
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", ErrSubmission, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %s", ErrSubmission, e.Status, e.Body)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrSubmission
}

// Client posts finished records to the ballot backend
type Client struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{url: url, httpClient: httpClient, now: time.Now}
}

// Submit sends one record. It is never retried here; the operator resubmits
// and the Idempotency-Key lets the backend recognize the retry.
func (c *Client) Submit(ctx context.Context, ref string, rec models.ExtractedRecord, operatorID string) error {
	if operatorID == "" {
		operatorID = models.AnonymousOperator
	}

	payload, err := json.Marshal(models.BallotSubmission{
		Data:      rec,
		Timestamp: c.now().UTC().Format(TimestampFormat),
		UserID:    operatorID,
	})
	if err != nil {
		return &Error{Err: fmt.Errorf("failed to encode submission: %w", err)}
	}

	key, err := IdempotencyKey(ref, rec, operatorID)
	if err != nil {
		return &Error{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return &Error{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IdempotencyHeader, key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Body: string(body)}
	}

	slog.Info("ballot delivered", "status", resp.StatusCode, "idempotency_key", key[:12])
	return nil
}

// IdempotencyKey derives the retry key from the capture reference, the record
// content and the operator. The timestamp is excluded so a resubmission of the
// same record maps to the same key.
func IdempotencyKey(ref string, rec models.ExtractedRecord, operatorID string) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(ref))
	h.Write([]byte{0})
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(operatorID))
	return hex.EncodeToString(h.Sum(nil)), nil
}
