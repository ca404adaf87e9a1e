// Package token implements token-action submissions, the activity-event
// producer for the streak tracker.
//
// A vendor submits a token (scanned from a QR code or typed by hand)
// together with one of three actions: Redeem, Stake, or Restock. Restock
// additionally requires proof-of-delivery photos. A valid submission is
// persisted and recorded as one activity event on the streak tracker; the
// tracker decides whether the event advances, resets, or holds the streak.
package token
