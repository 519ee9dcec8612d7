// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the TallyGo station server.

TallyGo digitizes paper tally sheets. An operator photographs a sheet, a
vision-language model extracts the ballot categories into a structured record,
the operator reviews and corrects it, and the record is submitted to a ballot
backend.

# Starting the Server

Settings come from CLI flags, environment variables, or a .env file:

	SESSION_SALT=... OPENAI_API_KEY=sk-... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - SESSION_SALT (--session-salt): Secret for operator session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: tallygo.db)
  - OPENAI_API_KEY (--api-key): Recognition credential
  - OPERATOR_PASSWORD (--operator-password): Shared sign-in password
  - SUBMIT_URL (--submit-url): Ballot backend (default: this server's /ballots)
  - REDIS_URL (--redis-url): Keep the operator log in Redis
  - LOG_TTL (--log-ttl): Operator log lifetime in Redis (default: 12h)
  - CAMERA_GLOB, FFMPEG_PATH: Camera discovery and capture binary

# Architecture

  - capture: Camera session over ffmpeg, still capture and downscaling
  - recognition: Chat-completion client and JSON repair
  - editor: Review/edit state machine and serialized submission
  - submission: Ballot backend client with idempotency keys
  - pipeline: Orchestrates capture, recognition and submission
  - logs: Operator log with memory and Redis stores
  - auth: Operator session tokens
  - handlers, router, middleware: HTTP surface
  - db: Ballot schema for sqlite and PostgreSQL
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
