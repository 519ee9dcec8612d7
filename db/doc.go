// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the ballot store and creates its schema.

# Connecting

Open selects the driver from the configured database type and pings it:

	conn, err := db.Open(ctx, "sqlite", "file:tallygo.db")
	conn, err := db.Open(ctx, "postgres", "postgres://...")

sqlite uses modernc.org/sqlite (no cgo) limited to one open connection;
postgres uses lib/pq.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same statements run on both databases.

# Tables

  - ballot_submission: One submitted record with operator, client timestamp
    and optional idempotency key (unique)
  - ballot_field: One field-group per category, ordered by position

# Relationships

	ballot_submission 1──* ballot_field

Foreign keys use ON DELETE CASCADE.
*/
package db
