// Package store provides durable persistence for streak records and token
// submissions.
//
// The backing medium is SQLite in WAL mode. At most one streak record
// exists per vendor key; saves are atomic upserts, so a concurrent reader
// never observes a partially written record. Absence of a record is a
// normal return value (ErrNotFound), not an error condition the caller
// should surface.
//
// A stored record that fails to parse or violates the streak invariants is
// reported as ErrMalformedRecord. Callers discard such records and start
// fresh; corruption of the streak row is cosmetic, never fatal.
//
// MemStore is the in-memory fallback used when the backing medium is
// unavailable, and in tests.
package store
