// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tallygo/cliparse"
	"github.com/danielhkuo/tallygo/middleware"
	"github.com/danielhkuo/tallygo/models"
	"github.com/danielhkuo/tallygo/submission"
)

// BallotHandler is the backend sink that stores submitted records
type BallotHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg}
}

// SubmitBallot handles POST /ballots.
// A repeated Idempotency-Key returns the ballot stored the first time with 200.
func (h *BallotHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	var req models.BallotSubmission
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid ballot: every category must map to {id_letter, vote_id, reg_id}")
		return
	}

	// Validate input
	if req.Data.Len() == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "data must contain at least one category")
		return
	}
	if _, err := time.Parse(time.RFC3339, req.Timestamp); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "timestamp must be ISO-8601")
		return
	}
	operatorID := strings.TrimSpace(req.UserID)
	if operatorID == "" {
		operatorID = models.AnonymousOperator
	}

	var key sql.NullString
	if k := strings.TrimSpace(r.Header.Get(submission.IdempotencyHeader)); k != "" {
		key = sql.NullString{String: k, Valid: true}
	}

	ballotID := uuid.NewString()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO ballot_submission (id, idempotency_key, operator_id, recorded_at, received_at, category_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (idempotency_key) DO NOTHING
	`, ballotID, key, operatorID, req.Timestamp, time.Now().UTC(), req.Data.Len())
	if err != nil {
		slog.Error("failed to insert ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store ballot")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Retry of a ballot we already have
		var existingID string
		err := tx.QueryRow(`SELECT id FROM ballot_submission WHERE idempotency_key = $1`, key).Scan(&existingID)
		if err != nil {
			slog.Error("failed to look up idempotent ballot", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		slog.Info("duplicate ballot submission", "ballot_id", existingID, "operator_id", operatorID)
		middleware.JSONResponse(w, http.StatusOK, models.SubmitBallotResponse{
			BallotID: existingID,
			Message:  "Ballot already recorded",
		})
		return
	}

	for i, c := range req.Data.Categories() {
		_, err = tx.Exec(`
			INSERT INTO ballot_field (submission_id, position, category, id_letter, vote_id, reg_id)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, ballotID, i, c.Name, c.Fields.IDLetter, c.Fields.VoteID, c.Fields.RegID)
		if err != nil {
			slog.Error("failed to insert ballot field", "error", err, "category", c.Name)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store ballot")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store ballot")
		return
	}

	slog.Info("ballot recorded", "ballot_id", ballotID, "operator_id", operatorID, "categories", req.Data.Len())

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballotID,
		Message:  "Ballot recorded",
	})
}

// GetBallot handles GET /ballots/{id}
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	ballotID := r.PathValue("id")
	if ballotID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ballot id is required")
		return
	}

	ballot := models.Ballot{ID: ballotID}
	err := h.db.QueryRow(`
		SELECT operator_id, recorded_at, received_at
		FROM ballot_submission
		WHERE id = $1
	`, ballotID).Scan(&ballot.OperatorID, &ballot.Timestamp, &ballot.ReceivedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT category, id_letter, vote_id, reg_id
		FROM ballot_field
		WHERE submission_id = $1
		ORDER BY position
	`, ballotID)
	if err != nil {
		slog.Error("failed to query ballot fields", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var fields models.FieldGroup
		if err := rows.Scan(&name, &fields.IDLetter, &fields.VoteID, &fields.RegID); err != nil {
			slog.Error("failed to scan ballot field", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		ballot.Data.Set(name, fields)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read ballot fields", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ballot)
}
