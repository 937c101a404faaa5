// Package confirm orchestrates the confirmation-gated action workflow: a
// pending action is confirmed, the admin re-enters their password, the
// verification gateway accepts, and only then does the bound mutation run.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"equiplend/adminctl/internal/action"
	"equiplend/adminctl/internal/audit"
	"equiplend/adminctl/internal/notify"
	"equiplend/adminctl/internal/prompt"
	"equiplend/adminctl/internal/session"
	"equiplend/adminctl/internal/verify"
)

// Stage is where the flow currently is. Hosts render the matching dialog.
type Stage int

const (
	// StageIdle: nothing pending.
	StageIdle Stage = iota
	// StageConfirming: the confirmation dialog is showing the target summary.
	StageConfirming
	// StagePrompting: the credential prompt is open.
	StagePrompting
)

// Sentinel errors for host misuse of the flow.
var (
	ErrNoPendingAction = errors.New("no pending action")
	ErrSubmitInFlight  = errors.New("a verification is already in flight")
)

// Mutation performs the guarded operation for a verified pending action.
type Mutation func(ctx context.Context, p *action.Pending) error

// Refresh re-fetches or patches the list state that displayed the target.
type Refresh func(ctx context.Context) error

// MessageFunc builds a user-visible notification for a pending action.
type MessageFunc func(p *action.Pending) string

// Config wires one Flow. Gateway, Notifier, and Mutation are required.
type Config struct {
	Gateway  verify.Gateway
	Notifier notify.Notifier
	Mutation Mutation
	// Refresh runs after a successful mutation, before the success
	// notification. Optional.
	Refresh Refresh
	// Recorder receives the flow's terminal outcome, best-effort. Optional.
	Recorder audit.Recorder
	// Store resolves the acting admin for audit entries. Optional.
	Store session.Store
	// SuccessMessage and FailureMessage build the notifications; defaults
	// name the action kind and target summary.
	SuccessMessage MessageFunc
	FailureMessage MessageFunc
}

// Flow runs one confirmation-gated action at a time. Each call site owns its
// own Flow; there is no shared instance.
type Flow struct {
	cfg Config

	mu      sync.Mutex
	stage   Stage
	pending *action.Pending
	attempt prompt.Attempt
}

// New returns a Flow for the given wiring.
func New(cfg Config) (*Flow, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("confirm: Gateway is required")
	}
	if cfg.Notifier == nil {
		return nil, errors.New("confirm: Notifier is required")
	}
	if cfg.Mutation == nil {
		return nil, errors.New("confirm: Mutation is required")
	}
	if cfg.SuccessMessage == nil {
		cfg.SuccessMessage = func(p *action.Pending) string {
			return fmt.Sprintf("%s succeeded for %s", p.Kind, p.Summary)
		}
	}
	if cfg.FailureMessage == nil {
		cfg.FailureMessage = func(p *action.Pending) string {
			return fmt.Sprintf("%s failed for %s", p.Kind, p.Summary)
		}
	}
	return &Flow{cfg: cfg}, nil
}

// Start sets the pending action and moves to the confirmation stage. A flow
// already in progress is discarded, as when the admin clicks a different
// row's delete control while a dialog is up.
func (f *Flow) Start(p *action.Pending) error {
	if err := p.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		f.recordAbandoned("superseded by a new action")
	}
	f.attempt.Close()
	f.pending = p
	f.stage = StageConfirming
	return nil
}

// ConfirmIntent signals that the admin wants to proceed. The confirmation
// dialog closes and the credential prompt opens; no mutation runs here.
func (f *Flow) ConfirmIntent() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stage != StageConfirming || f.pending == nil {
		return ErrNoPendingAction
	}
	f.stage = StagePrompting
	f.attempt.Open()
	return nil
}

// SetSecret records the typed secret on the open prompt.
func (f *Flow) SetSecret(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempt.SetValue(v)
}

// SubmitSecret verifies the typed secret and, on acceptance, runs the
// mutation, the refresh, and the success notification, strictly in that
// order. A rejection keeps the prompt open with the gateway's message. A
// verification result arriving after Cancel (or after the pending action was
// replaced) is discarded.
func (f *Flow) SubmitSecret(ctx context.Context) error {
	f.mu.Lock()
	if f.stage != StagePrompting || f.pending == nil {
		f.mu.Unlock()
		return ErrNoPendingAction
	}
	if !f.attempt.BeginSubmit() {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	secret := f.attempt.Value()
	target := f.pending
	f.mu.Unlock()

	res := f.cfg.Gateway.VerifyPassword(ctx, secret)

	f.mu.Lock()
	if f.pending == nil || f.pending.ID != target.ID {
		// Cancelled or superseded while the verification was in flight.
		f.mu.Unlock()
		return nil
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = verify.DefaultMessage
		}
		f.attempt.Fail(msg)
		f.mu.Unlock()
		return nil
	}
	// Verified for this exact instance: the prompt closes and the secret is
	// wiped before the mutation runs. Cancel can no longer affect the flow.
	f.attempt.Close()
	f.pending = nil
	f.stage = StageIdle
	f.mu.Unlock()

	if err := f.cfg.Mutation(ctx, target); err != nil {
		f.cfg.Notifier.Error(f.cfg.FailureMessage(target))
		f.record(target, audit.OutcomeFailed, err.Error())
		return nil
	}
	if f.cfg.Refresh != nil {
		if err := f.cfg.Refresh(ctx); err != nil {
			f.cfg.Notifier.Error(fmt.Sprintf("%s, but the list could not be refreshed", f.cfg.SuccessMessage(target)))
			f.record(target, audit.OutcomeConfirmed, fmt.Sprintf("refresh failed: %v", err))
			return nil
		}
	}
	f.cfg.Notifier.Success(f.cfg.SuccessMessage(target))
	f.record(target, audit.OutcomeConfirmed, "")
	return nil
}

// Cancel discards the pending action and wipes the credential attempt. Valid
// at every stage, including while a verification is in flight.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return
	}
	f.recordAbandoned("")
	f.pending = nil
	f.stage = StageIdle
	f.attempt.Close()
}

// recordAbandoned audits a flow the admin walked away from, classified by
// the attempt's last state: a flow abandoned after a rejected verification
// is rejected, any other abandonment is cancelled. Caller holds f.mu.
func (f *Flow) recordAbandoned(msg string) {
	outcome := audit.OutcomeCancelled
	if f.attempt.State() == prompt.StateError {
		outcome = audit.OutcomeRejected
		msg = f.attempt.ErrorMessage()
	}
	f.record(f.pending, outcome, msg)
}

// Stage returns the flow's current stage.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Pending returns the current pending action, nil when idle.
func (f *Flow) Pending() *action.Pending {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// PromptError returns the visible rejection message, empty when none.
func (f *Flow) PromptError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt.ErrorMessage()
}

// Secret returns the currently typed secret. Hosts that re-render the prompt
// use it to preserve the value across a rejection.
func (f *Flow) Secret() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt.Value()
}

// record writes an audit entry, best-effort.
func (f *Flow) record(p *action.Pending, outcome audit.Outcome, msg string) {
	if f.cfg.Recorder == nil {
		return
	}
	actor := ""
	if f.cfg.Store != nil {
		if id, err := f.cfg.Store.Current(context.Background()); err == nil {
			actor = id.UserID
		}
	}
	e := &audit.Entry{
		Action:   p.Kind,
		TargetID: p.TargetID,
		Summary:  p.Summary,
		Actor:    actor,
		Outcome:  outcome,
		Message:  msg,
	}
	if err := f.cfg.Recorder.Record(e); err != nil {
		slog.Warn("audit: failed to record flow outcome", "error", err)
	}
}
