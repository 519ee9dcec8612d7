// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package submission delivers finished ballot records to the backend sink.
//
// The request body is
//
//	{"data": {...}, "timestamp": "2025-03-01T12:00:00.000Z", "userId": "op-1"}
//
// with an Idempotency-Key header. Any non-2xx status is returned as *Error
// carrying the response body.
package submission
