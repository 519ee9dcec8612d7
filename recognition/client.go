// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tallygo/models"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-4o"

	maxResponseBytes = 4 << 20
)

var errNoChoices = errors.New("response contained no choices")

// Client sends captured frames to an OpenAI-compatible chat completion endpoint
type Client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func NewClient(endpoint, model string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{endpoint: endpoint, model: model, httpClient: httpClient}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Recognize extracts a record from one frame. It makes exactly one request and
// never retries; a non-nil error is always a *Error.
func (c *Client) Recognize(ctx context.Context, frame models.CaptureFrame, apiKey string) (models.ExtractedRecord, error) {
	if apiKey == "" {
		return models.ExtractedRecord{}, &Error{Kind: KindMissingCredential}
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: ExtractionPrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: frame.DataURI()}},
			},
		}},
	})
	if err != nil {
		return models.ExtractedRecord{}, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return models.ExtractedRecord{}, &Error{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ExtractedRecord{}, &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.ExtractedRecord{}, &Error{Kind: KindTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	slog.Info("recognition response received",
		"frame_id", frame.ID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_version", PromptVersion,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.ExtractedRecord{}, &Error{Kind: KindHTTP, Status: resp.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.ExtractedRecord{}, malformed(string(body), err)
	}
	if len(parsed.Choices) == 0 {
		return models.ExtractedRecord{}, malformed(string(body), errNoChoices)
	}

	return Parse(parsed.Choices[0].Message.Content)
}
