// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package editor lets the operator correct an extracted record before it is
submitted.

The editor has two modes. Edit copies the committed record into a working
copy; SetField only ever touches that copy. Save commits it, Cancel throws it
away, so cancelling always restores the exact pre-edit record.

	ed := editor.New(submitter)
	ed.Load(frameID, rec)
	ed.Edit()
	ed.SetField("PRESIDENT", "vote_id", "3")
	ed.Save()
	resp, err := ed.Submit(ctx, operatorID)

Submit sends the committed record and leaves it intact on failure so the
operator can retry. Submissions are serialized: a second call while one is
outstanding fails with ErrSubmitInProgress.
*/
package editor
