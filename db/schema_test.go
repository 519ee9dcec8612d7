// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"testing"
)

func TestOpenUnsupportedType(t *testing.T) {
	if _, err := Open(context.Background(), "mysql", "x"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestCreateSchemaIdempotent(t *testing.T) {
	conn, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() run %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"ballot_submission", "ballot_field"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestIdempotencyKeyUnique(t *testing.T) {
	conn, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()
	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	insert := `INSERT INTO ballot_submission (id, idempotency_key, operator_id, recorded_at, category_count)
		VALUES ($1, $2, 'op', '2025-01-01T00:00:00.000Z', 0)
		ON CONFLICT (idempotency_key) DO NOTHING`

	res, err := conn.Exec(insert, "b1", "key-1")
	if err != nil {
		t.Fatalf("first insert error = %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("first insert affected %d rows", n)
	}

	res, err = conn.Exec(insert, "b2", "key-1")
	if err != nil {
		t.Fatalf("duplicate insert error = %v", err)
	}
	if n, _ := res.RowsAffected(); n != 0 {
		t.Errorf("duplicate key inserted %d rows, want 0", n)
	}

	// submissions without a key never collide
	if _, err := conn.Exec(insert, "b3", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(insert, "b4", nil); err != nil {
		t.Fatal(err)
	}
}
