// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Session Gate

Station routes require the operator's bearer token:

	mux.HandleFunc("POST /capture", middleware.WithLogging(
		middleware.RequireSession(session, station.Capture)))

Requests without "Authorization: Bearer <token>", or with a token that does
not match the current sign-in, get 401.

# Error Boundary

Recover wraps the whole mux. A panicking handler answers 500 and leaves an
"ERROR BOUNDARY TRIGGERED: <panic>" entry in the operator log:

	server := http.Server{
		Handler: middleware.Recover(recorder, middleware.CORS(mux)),
	}

# CORS Middleware

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, Idempotency-Key.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.SetFieldRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
