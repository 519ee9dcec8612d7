// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared across the station.

# ExtractedRecord

An ExtractedRecord maps ballot category names to a FieldGroup:

	{"MAYOR": {"id_letter": "A", "vote_id": "12", "reg_id": "3041"}}

Categories keep the order in which they were first seen, both when built with
Set and when decoded from JSON. MarshalJSON writes them back in that order.
UnmarshalJSON is strict: every value must be an object.

DecodeMembers exposes the order-preserving object decoder for callers that
need to inspect raw member values before deciding how to convert them.

# Request Types

  - LoginRequest: username, password
  - OpenCameraRequest: facing ("user" or "environment")
  - SetFieldRequest: category, field, value
  - BallotSubmission: data, timestamp, userId

# Response Types

  - LoginResponse: token, operator_id
  - SubmitRecordResponse: submitted
  - SubmitBallotResponse: ballot_id, message
  - LogsResponse: entries
  - ErrorResponse: error, message

# Domain Types

  - CaptureFrame: encoded still plus pixel dimensions
  - LogEntry: id, message, type (info|success|error), timestamp
  - Ballot: a stored submission
*/
package models
