// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types and defaults that both sqlite and postgres accept.
const schema = `
-- Ballot submissions
CREATE TABLE IF NOT EXISTS ballot_submission (
    id TEXT PRIMARY KEY,
    idempotency_key TEXT UNIQUE,
    operator_id TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    received_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    category_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_submission_operator ON ballot_submission(operator_id);
CREATE INDEX IF NOT EXISTS idx_ballot_submission_received ON ballot_submission(received_at);

-- One row per category, in the order the record listed them
CREATE TABLE IF NOT EXISTS ballot_field (
    submission_id TEXT NOT NULL REFERENCES ballot_submission(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    category TEXT NOT NULL,
    id_letter TEXT NOT NULL DEFAULT '',
    vote_id TEXT NOT NULL DEFAULT '',
    reg_id TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (submission_id, position),
    UNIQUE (submission_id, category)
);

CREATE INDEX IF NOT EXISTS idx_ballot_field_category ON ballot_field(category);
`
