// Package session is the mutable handle around a match history.
//
// A Session serializes concurrent access to a history.Log with a
// read/write lock. Every point goes to the Recorder before the in-memory
// state is swapped, so a failed write leaves the session unchanged.
//
// Sequence numbers come from a logical Clock rather than wall time. The
// wall time carried by each point is taken from an injected TimeSource.
package session
