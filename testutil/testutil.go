// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tallygo/cliparse"
	"github.com/danielhkuo/tallygo/db"
	"github.com/danielhkuo/tallygo/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		SessionSalt:      "test-session-salt",
		APIKey:           "sk-test",
		RecognitionURL:   cliparse.DefaultRecognitionURL,
		RecognitionModel: cliparse.DefaultRecognitionModel,
		SubmitURL:        "http://localhost:3318/ballots",
		CameraGlob:       cliparse.DefaultCameraGlob,
		FFmpegPath:       "ffmpeg",
		LogTTL:           cliparse.DefaultLogTTL,
	}
}

// SampleRecord returns a three-category record in a fixed order
func SampleRecord() models.ExtractedRecord {
	var rec models.ExtractedRecord
	rec.Set("PRESIDENT", models.FieldGroup{IDLetter: "A", VoteID: "1", RegID: "1001"})
	rec.Set("SECRETARY", models.FieldGroup{IDLetter: "B", VoteID: "2", RegID: "1001"})
	rec.Set("TREASURER", models.FieldGroup{IDLetter: "C", VoteID: "3", RegID: "1001"})
	return rec
}

// InsertTestBallot stores a ballot directly and returns its ID
func InsertTestBallot(t *testing.T, conn *sql.DB, operatorID string, rec models.ExtractedRecord) string {
	t.Helper()

	ballotID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO ballot_submission (id, operator_id, recorded_at, received_at, category_count)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, operatorID, "2025-03-01T12:00:00.000Z", time.Now().UTC(), rec.Len())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for i, c := range rec.Categories() {
		_, err := conn.Exec(`
			INSERT INTO ballot_field (submission_id, position, category, id_letter, vote_id, reg_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, ballotID, i, c.Name, c.Fields.IDLetter, c.Fields.VoteID, c.Fields.RegID)
		if err != nil {
			t.Fatalf("Failed to create test ballot field: %v", err)
		}
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
