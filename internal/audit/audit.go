// Package audit keeps a local trail of guarded-action outcomes. Recording is
// best-effort: a failed write is logged and never fails the flow.
package audit

import (
	"time"

	"equiplend/adminctl/internal/action"
)

// Outcome is the terminal state of one guarded flow.
type Outcome string

const (
	// OutcomeConfirmed: verification passed and the mutation succeeded.
	OutcomeConfirmed Outcome = "confirmed"
	// OutcomeCancelled: the user backed out before a successful verification.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeRejected: the flow ended with the last verification rejected.
	OutcomeRejected Outcome = "rejected"
	// OutcomeFailed: verification passed but the mutation failed.
	OutcomeFailed Outcome = "failed"
)

// Entry is one recorded flow outcome.
type Entry struct {
	ID        string
	Action    action.Kind
	TargetID  string
	Summary   string
	Actor     string // session user id, empty if unresolved
	Outcome   Outcome
	Message   string // rejection or failure detail, empty on success
	CreatedAt time.Time
}

// Recorder persists flow outcomes.
type Recorder interface {
	Record(e *Entry) error
}
