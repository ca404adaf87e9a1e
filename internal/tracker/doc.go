// Package tracker owns the streak record at runtime.
//
// ARCHITECTURE:
//
// Single-Owner Record:
// The Tracker is the sole writer of the streak record. Every evaluation
// (session start, activity event, midnight flag clear) runs to completion
// under one mutex, so no evaluation observes a partially applied prior
// transition. The presentation layer only reads the derived count and
// subscribes to effects.
//
// Evaluation Flow:
//  1. Start() loads the persisted record (absent and malformed both mean
//     "no record") and runs one initialization transition
//  2. RecordActivity() runs the pure streak.Transition for each event
//  3. Changed records are written back; the hold branch is a pure read
//  4. Effects are fanned out to subscribers via the Broadcaster
//
// Storage degradation:
// If the backing store cannot be read or written, the tracker keeps
// operating on its in-memory record for the remainder of the session. The
// dashboard stays usable; only cross-session persistence is lost. This is
// logged at warn and never surfaced to the vendor as an error.
//
// Cross-process writers to the same vendor key are not arbitrated: last
// write wins. That is an accepted limitation of the single-record design.
//
// The Scheduler clears the updated-today flag once per local calendar day
// at midnight, re-arming itself for the following midnight (one-shot, not
// fixed-interval, so daylight-saving shifts stay correct).
package tracker
