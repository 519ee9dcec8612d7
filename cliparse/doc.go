// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Ballot store connection string (default: file:tallygo.db for sqlite)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - SessionSalt: Secret for session token HMAC (required)
  - OperatorPassword: Station password (empty accepts any non-empty password)
  - APIKey: Recognition service credential (empty fails every recognition)
  - RecognitionURL, RecognitionModel: Chat completion endpoint and model
  - SubmitURL: Ballot backend (default: this server's /ballots)
  - CameraGlob, FFmpegPath: Video devices and the ffmpeg binary
  - RedisURL, LogTTL: Operator log store (default: in memory) and its lifetime

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	SESSION_SALT      → -session-salt
	OPERATOR_PASSWORD → -operator-password
	OPENAI_API_KEY    → -api-key
	RECOGNITION_URL   → -recognition-url
	RECOGNITION_MODEL → -model
	SUBMIT_URL        → -submit-url
	CAMERA_GLOB       → -camera-glob
	FFMPEG_PATH       → -ffmpeg
	REDIS_URL         → -redis-url
	LOG_TTL           → -log-ttl

CLI flags take precedence over environment variables. main loads a .env file
into the environment before parsing.

# Validation

ParseFlags returns an error if:

  - SESSION_SALT is missing
  - PORT is not a valid port number
  - DATABASE_TYPE is neither sqlite nor postgres
  - DATABASE_URL is missing for postgres
  - LOG_TTL is not a positive duration
*/
package cliparse
