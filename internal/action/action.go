// Package action defines the pending action targeted by a guarded mutation.
package action

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies which guarded operation a pending action represents.
type Kind string

const (
	KindDeleteUser     Kind = "delete-user"
	KindDeleteBranch   Kind = "delete-branch"
	KindDeleteCategory Kind = "delete-category"
	KindCreateUser     Kind = "create-user"
	KindUpdateUser     Kind = "update-user"
)

var kinds = map[Kind]bool{
	KindDeleteUser:     true,
	KindDeleteBranch:   true,
	KindDeleteCategory: true,
	KindCreateUser:     true,
	KindUpdateUser:     true,
}

// Destructive reports whether the kind removes an entity. Destructive kinds
// require a non-empty target and summary so the confirmation UI can name
// what is being removed.
func (k Kind) Destructive() bool {
	switch k {
	case KindDeleteUser, KindDeleteBranch, KindDeleteCategory:
		return true
	}
	return false
}

// Pending is a one-time binding between a user's intent and the mutation it
// guards. ID is unique per instance; a verification result is only honored
// for the instance it was requested for. Never persisted.
type Pending struct {
	ID        string
	Kind      Kind
	TargetID  string
	Summary   string // display-only label, e.g. the user's name
	CreatedAt time.Time
}

// New creates a Pending with a fresh instance ID.
func New(kind Kind, targetID, summary string) *Pending {
	return &Pending{
		ID:        uuid.New().String(),
		Kind:      kind,
		TargetID:  targetID,
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the pending action before a flow may start.
func (p *Pending) Validate() error {
	if p == nil {
		return errors.New("pending action is nil")
	}
	if !kinds[p.Kind] {
		return fmt.Errorf("unknown action kind %q", p.Kind)
	}
	if p.ID == "" {
		return errors.New("pending action has no instance id")
	}
	if p.Kind.Destructive() {
		if p.TargetID == "" {
			return fmt.Errorf("%s requires a target id", p.Kind)
		}
		if p.Summary == "" {
			return fmt.Errorf("%s requires a target summary", p.Kind)
		}
	}
	return nil
}
