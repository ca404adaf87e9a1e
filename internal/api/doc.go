// Package api exposes the dashboard-facing HTTP surface: the current
// streak count, token-action submissions, and recent submission history.
//
// The handlers are thin; all rules live in the token service and the
// tracker. Validation failures map to 400 with a field-scoped error body,
// everything else the subsystem absorbs (storage trouble is not a
// user-visible error by design).
package api
