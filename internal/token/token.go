package token

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Action is a token operation the vendor can perform.
type Action string

const (
	// ActionRedeem exchanges tokens for value.
	ActionRedeem Action = "Redeem"

	// ActionStake locks tokens for rewards.
	ActionStake Action = "Stake"

	// ActionRestock records new inventory. Requires proof-of-delivery
	// photos.
	ActionRestock Action = "Restock"
)

// Actions lists the valid actions in display order.
var Actions = []Action{ActionRedeem, ActionStake, ActionRestock}

// Submission is one validated token action, persisted for audit and
// counted as a single activity event.
type Submission struct {
	// ID is a time-sortable UUIDv7.
	ID string

	VendorKey string

	// Token is the NFC-normalized token text.
	Token string

	Action Action

	// PhotoCount is the number of proof photos attached. Required > 0
	// for Restock, informational otherwise.
	PhotoCount int

	CreatedAt time.Time
}

// ValidationError reports a rejected submission. These surface to the
// vendor (form errors), unlike storage failures which do not.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NormalizeToken canonicalizes hand-typed token text: trims surrounding
// whitespace and applies Unicode NFC so visually identical input compares
// equal regardless of how the platform keyboard composed it.
func NormalizeToken(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// ValidateRequest checks a submission request before it is accepted.
// Mirrors the dashboard form rules: a token is required, the action must
// be known, and Restock needs at least one proof photo.
func ValidateRequest(tok string, action Action, photoCount int) error {
	if tok == "" {
		return &ValidationError{Field: "token", Message: "please enter or scan a token"}
	}
	if !validAction(action) {
		return &ValidationError{Field: "action", Message: "please select an action"}
	}
	if action == ActionRestock && photoCount == 0 {
		return &ValidationError{Field: "photos", Message: "please upload proof of delivery"}
	}
	return nil
}

func validAction(a Action) bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}
