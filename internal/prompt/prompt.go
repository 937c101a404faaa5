// Package prompt holds the credential prompt's state: the secret currently
// typed, the visible error, and where the prompt is in its lifecycle.
package prompt

import "unicode/utf8"

// MaxSecretLen bounds the secret input in characters, matching the form
// field's limit. Counted in runes, not bytes: secrets are not ASCII-only.
const MaxSecretLen = 50

// TooLong reports whether v exceeds MaxSecretLen characters.
func TooLong(v string) bool {
	return utf8.RuneCountInString(v) > MaxSecretLen
}

// State is the prompt's lifecycle position.
type State int

const (
	// StateIdle: prompt is closed or open and waiting for input.
	StateIdle State = iota
	// StateSubmitting: a verification call is in flight for the current value.
	StateSubmitting
	// StateError: the last attempt was rejected; errMsg is visible.
	StateError
)

// Attempt is the transient credential attempt. The secret lives only here and
// only while the prompt is open; Close wipes it on every exit path so a stale
// secret cannot reappear on reopen. Must never be logged or persisted.
type Attempt struct {
	open   bool
	value  string
	errMsg string
	state  State
}

// Open readies the attempt for input. Any leftover value or error is cleared.
func (a *Attempt) Open() {
	a.open = true
	a.value = ""
	a.errMsg = ""
	a.state = StateIdle
}

// SetValue records the typed secret. Input is ignored while a submission is
// in flight or the prompt is closed, and truncated at MaxSecretLen
// characters on a rune boundary so a multi-byte secret is never cut
// mid-character.
func (a *Attempt) SetValue(v string) {
	if !a.open || a.state == StateSubmitting {
		return
	}
	if TooLong(v) {
		v = string([]rune(v)[:MaxSecretLen])
	}
	a.value = v
}

// BeginSubmit marks a verification in flight and clears the visible error.
// Returns false if the prompt is closed or already submitting.
func (a *Attempt) BeginSubmit() bool {
	if !a.open || a.state == StateSubmitting {
		return false
	}
	a.state = StateSubmitting
	a.errMsg = ""
	return true
}

// Fail records a rejection. The typed value is preserved so the user can fix
// a typo. No-op when the prompt has been closed since the submit started: a
// late rejection must not resurrect a dismissed prompt.
func (a *Attempt) Fail(msg string) {
	if !a.open {
		return
	}
	a.state = StateError
	a.errMsg = msg
}

// Close ends the attempt and wipes the secret and error, on success and on
// cancel alike.
func (a *Attempt) Close() {
	a.open = false
	a.value = ""
	a.errMsg = ""
	a.state = StateIdle
}

// IsOpen reports whether the prompt is visible.
func (a *Attempt) IsOpen() bool { return a.open }

// Value returns the currently typed secret.
func (a *Attempt) Value() string { return a.value }

// ErrorMessage returns the visible rejection message, empty when none.
func (a *Attempt) ErrorMessage() string { return a.errMsg }

// State returns the lifecycle position.
func (a *Attempt) State() State { return a.state }
