// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/tallygo/models"
)

func testFrame() models.CaptureFrame {
	return models.CaptureFrame{
		ID:       "frame-1",
		Data:     []byte{0xff, 0xd8, 0xff, 0xd9},
		MIMEType: "image/jpeg",
		Width:    800,
		Height:   600,
	}
}

func chatReply(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []any{
			map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestRecognizeSendsExtractionRequest(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatReply("```json\n{\"MAYOR\":{\"id_letter\":\"A\",\"vote_id\":\"1\",\"reg_id\":\"2\"},\"ITEM\":42}\n```"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-model", server.Client())
	rec, err := client.Recognize(context.Background(), testFrame(), "sk-test")
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}

	if captured.Model != "test-model" || len(captured.Messages) != 1 {
		t.Fatalf("unexpected request: %+v", captured)
	}
	parts := captured.Messages[0].Content
	if len(parts) != 2 || parts[0].Text != ExtractionPrompt || parts[1].Type != "image_url" {
		t.Fatalf("unexpected content parts: %+v", parts)
	}
	if !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("image_url is not a data URI: %q", parts[1].ImageURL.URL)
	}

	if got := rec.Names(); len(got) != 2 || got[0] != "MAYOR" || got[1] != "ITEM" {
		t.Errorf("Names() = %v", got)
	}
	item, _ := rec.Get("ITEM")
	if item != (models.FieldGroup{VoteID: "42"}) {
		t.Errorf("ITEM = %+v", item)
	}
}

func TestRecognizeMissingCredential(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", server.Client())
	_, err := client.Recognize(context.Background(), testFrame(), "")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no network call, got %d", calls.Load())
	}
}

func TestRecognizeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", server.Client())
	_, err := client.Recognize(context.Background(), testFrame(), "sk-test")

	var recErr *Error
	if !errors.As(err, &recErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if recErr.Kind != KindHTTP || recErr.Status != http.StatusTooManyRequests {
		t.Errorf("unexpected error: %+v", recErr)
	}
	if !strings.Contains(recErr.Body, "rate limited") {
		t.Errorf("body not preserved: %q", recErr.Body)
	}
	if !errors.Is(err, ErrHTTP) {
		t.Error("errors.Is(err, ErrHTTP) = false")
	}
}

func TestRecognizeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, "", nil)
	_, err := client.Recognize(context.Background(), testFrame(), "sk-test")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestRecognizeMalformedContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"prose content", chatReply("Sorry, the image is too blurry.")},
		{"no choices", `{"choices":[]}`},
		{"not json", `<html>gateway</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL, "", server.Client())
			_, err := client.Recognize(context.Background(), testFrame(), "sk-test")
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}
