// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the TallyGo station API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, handlers.Station{
		Session:    session,
		Controller: controller,
		Log:        recorder,
	})

# Endpoints

Health and root (public):

	GET /health
	GET /

Operator session:

	POST   /session - Sign in, returns a bearer token
	DELETE /session - Sign out, clears the operator log and releases the camera

Station (requires Authorization: Bearer <token>):

	GET  /state          - Pipeline phase, record, reason, edit mode, camera
	GET  /logs           - Operator log, newest first
	POST /camera/open    - Acquire a camera ({"facing": "user"|"environment"})
	POST /camera/toggle  - Switch front/back camera
	POST /camera/close   - Release the camera
	GET  /camera/preview - Live frame or frozen still (image/jpeg)
	POST /capture        - Freeze a still and start recognition (202)
	POST /retake         - Discard the still, record and error
	POST /error/dismiss  - Acknowledge the error panel
	POST /record/edit    - Start editing
	PUT  /record/fields  - Change one field of the working copy
	POST /record/save    - Commit edits
	POST /record/cancel  - Discard edits
	POST /record/submit  - Send the committed record to the ballot backend

Ballot backend (public):

	POST /ballots      - Store a record (Idempotency-Key aware)
	GET  /ballots/{id} - Fetch a stored record

The preview route skips request logging because the UI polls it.
*/
package router
