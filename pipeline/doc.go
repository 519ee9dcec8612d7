// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pipeline drives one station through capture, recognition, correction
and submission.

# States

	Idle --Capture--> Recognizing --ok--> Ready(record)
	                              --err-> Failed(reason) --Dismiss--> Idle
	Idle/Ready/Failed --Retake--> Idle
	Ready --Save--> Ready(updated record)

Capture runs the still encoding synchronously and recognition in a goroutine.
State is the only thing the presentation layer reads.

# Superseded captures

Every Capture and Retake bumps a generation counter and cancels the context of
the recognition in flight. A result that still arrives for an older generation
is dropped without touching state, so a slow reply for capture A can never
overwrite the record of capture B.

# Failures

Capture and recognition errors never escape as faults. They become Failed
with a human-readable reason and an error entry in the operator log. The one
exception is capture.ErrNotReady, which leaves the state as it was.

Close cancels recognition, waits for the goroutine and releases the camera.
*/
package pipeline
