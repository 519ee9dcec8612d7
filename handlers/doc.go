// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the TallyGo station API.

# Handler Types

  - SessionHandler: Operator sign-in and sign-out
  - StationHandler: Camera, capture, recognition state, editing and submission
  - BallotHandler: The ballot backend that stores submitted records

Station and session handlers share a Station value that bundles the operator
session, the pipeline controller and the operator log:

	station := handlers.Station{Session: session, Controller: ctrl, Log: recorder}
	stationHandler := handlers.NewStationHandler(station)

The ballot handler is created with a database and config:

	ballotHandler := handlers.NewBallotHandler(db, cfg)

# Capture Cycle

	POST /camera/open   → OpenCamera
	POST /capture       → Capture (202, recognition runs in the background)
	GET  /state         → GetState (poll until phase is ready or failed)
	POST /retake        → Retake

Pipeline errors map to status codes in writeStationError: busy or wrong-state
requests are 409, a missing camera is 503, a rejected submission is 502.

# Editing

	POST /record/edit   → EditRecord
	PUT  /record/fields → SetField ({"category", "field", "value"})
	POST /record/save   → SaveRecord
	POST /record/cancel → CancelEdit
	POST /record/submit → SubmitRecord

Submit always sends the committed record, never unsaved edits.

# Ballot Backend

SubmitBallot honors the Idempotency-Key header. A repeated key returns the
existing ballot with 200 instead of storing a second copy.
*/
package handlers
