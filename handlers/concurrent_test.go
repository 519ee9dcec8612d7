// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/tallygo/models"
	"github.com/danielhkuo/tallygo/submission"
	"github.com/danielhkuo/tallygo/testutil"
)

// TestConcurrentIdempotentRetries verifies that simultaneous retries carrying
// the same Idempotency-Key store exactly one ballot
func TestConcurrentIdempotentRetries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	ballotHandler := NewBallotHandler(db, testutil.GetTestConfig())

	body := models.BallotSubmission{
		Data:      testutil.SampleRecord(),
		Timestamp: "2025-03-01T12:00:00.000Z",
		UserID:    "clerk-7",
	}

	numRetries := 10
	ids := make([]string, numRetries)
	var created atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRetries; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/ballots", body, map[string]string{
				submission.IdempotencyHeader: "same-key",
			})
			w := httptest.NewRecorder()
			ballotHandler.SubmitBallot(w, req)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusOK:
			default:
				t.Errorf("Retry %d: unexpected status %d - %s", idx, w.Code, w.Body.String())
				return
			}

			var resp models.SubmitBallotResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Errorf("Retry %d: bad response: %v", idx, err)
				return
			}
			ids[idx] = resp.BallotID
		}(i)
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly one 201, got %d", created.Load())
	}
	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("Retry %d returned ballot %s, expected %s", i, id, ids[0])
		}
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM ballot_submission").Scan(&count)
	if count != 1 {
		t.Errorf("Expected 1 ballot, got %d", count)
	}
	db.QueryRow("SELECT COUNT(*) FROM ballot_field").Scan(&count)
	if count != 3 {
		t.Errorf("Expected 3 fields, got %d", count)
	}
}

// TestConcurrentDistinctBallots verifies that submissions from different
// captures are all stored
func TestConcurrentDistinctBallots(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	backendMux := http.NewServeMux()
	backendMux.HandleFunc("POST /ballots", NewBallotHandler(db, testutil.GetTestConfig()).SubmitBallot)
	backend := httptest.NewServer(backendMux)
	defer backend.Close()

	client := submission.NewClient(backend.URL+"/ballots", backend.Client())

	numCaptures := 8
	var wg sync.WaitGroup

	for i := 0; i < numCaptures; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			ref := "frame-" + string(rune('A'+idx))
			if err := client.Submit(context.Background(), ref, testutil.SampleRecord(), "clerk-7"); err != nil {
				t.Errorf("Capture %s: %v", ref, err)
			}
		}(i)
	}

	wg.Wait()

	var count int
	db.QueryRow("SELECT COUNT(*) FROM ballot_submission").Scan(&count)
	if count != numCaptures {
		t.Errorf("Expected %d ballots, got %d", numCaptures, count)
	}
}
