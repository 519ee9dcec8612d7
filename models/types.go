package models

import (
	"encoding/base64"
	"time"
)

// Log severities
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityError   = "error"
)

// Camera facing modes
const (
	FacingUser        = "user"
	FacingEnvironment = "environment"
)

// AnonymousOperator is reported when no operator is signed in
const AnonymousOperator = "anonymous"

// Request types

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type OpenCameraRequest struct {
	Facing string `json:"facing"`
}

type SetFieldRequest struct {
	Category string `json:"category"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// BallotSubmission is the body accepted by the ballot backend
type BallotSubmission struct {
	Data      ExtractedRecord `json:"data"`
	Timestamp string          `json:"timestamp"`
	UserID    string          `json:"userId"`
}

// Response types

type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operator_id"`
}

type SubmitRecordResponse struct {
	Submitted bool `json:"submitted"`
}

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type LogsResponse struct {
	Entries []LogEntry `json:"entries"`
}

// Domain types

// CaptureFrame is one encoded still image taken from the camera
type CaptureFrame struct {
	ID         string    `json:"id"`
	Data       []byte    `json:"-"`
	MIMEType   string    `json:"mime_type"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	CapturedAt time.Time `json:"captured_at"`
}

// DataURI returns the frame as a base64 data URI
func (f CaptureFrame) DataURI() string {
	return "data:" + f.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// LogEntry is one operator-visible diagnostic event
type LogEntry struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type Ballot struct {
	ID         string          `json:"id"`
	OperatorID string          `json:"userId"`
	Timestamp  string          `json:"timestamp"`
	ReceivedAt time.Time       `json:"received_at"`
	Data       ExtractedRecord `json:"data"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
