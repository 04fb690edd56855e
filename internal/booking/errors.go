// Package booking implements the seat inventory and booking-session core:
// the selection ledger, the passenger roster aligned to it, and the
// three-step session controller that submits bookings exactly once.
package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySelection is returned by ConfirmSeats when no seat is selected.
var ErrEmptySelection = errors.New("no seats selected")

// ErrAlreadyInProgress is returned when a booking submission is already in
// flight for this session.  It is a distinguished result, not a failure:
// the outstanding submission will settle the session.
var ErrAlreadyInProgress = errors.New("a submission is already in progress")

// ErrWrongStep is returned when an operation is invoked outside the wizard
// step it belongs to.
var ErrWrongStep = errors.New("operation not allowed in current step")

// ErrExitSession is returned by Back from the seat-selection step: there is
// no earlier step, so the caller should tear the session down.
var ErrExitSession = errors.New("leaving the booking session")

// ErrIndexOutOfRange is returned for a passenger index outside the roster.
var ErrIndexOutOfRange = errors.New("passenger index out of range")

// FieldError is one passenger-field violation.  Index identifies the
// passenger (selection order), Field the offending field.
type FieldError struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("passenger %d: %s %s", e.Index+1, e.Field, e.Message)
}

// ValidationError collects every field-level violation found in a roster,
// not just the first, so the caller can render all of them at once.
// Session state is unchanged when it is returned.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid passenger details: " + strings.Join(msgs, "; ")
}
