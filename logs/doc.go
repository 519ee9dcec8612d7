// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package logs records the operator-visible diagnostic trail of the station.

A Recorder keeps the 50 most recent entries, newest first, and mirrors them to
a Store after every append so the trail survives a station restart within the
same session:

	rec := logs.NewRecorder(ctx, logs.NewMemoryStore(logs.Namespace))
	rec.Success("Image captured successfully")

Entry ids are millisecond timestamps forced to be strictly increasing.

# Stores

  - MemoryStore: process memory, lost on restart
  - RedisStore: one Redis key with a TTL; the TTL bounds the session

Clear empties both the recorder and its store; it is called when the operator
signs out.
*/
package logs
