// Package errors defines the error kinds surfaced by the box protocol SDK.
//
// Every failure carries one of the sentinel kinds below so callers can branch
// with errors.Is, and a structured *Error with the entity and field involved
// so callers can recover details with errors.As.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Sentinel kinds.
var (
	ErrDecode             = stderrors.New("decode error")
	ErrInvalidParameters  = stderrors.New("invalid parameters")
	ErrPreconditionFailed = stderrors.New("precondition failed")
	ErrCommitmentMismatch = stderrors.New("commitment mismatch")
	ErrDataIntegrity      = stderrors.New("data integrity violation")
	ErrNotFound           = stderrors.New("not found")
	ErrConflict           = stderrors.New("conflict")
	ErrTransport          = stderrors.New("transport failure")
)

// Error is a classified SDK failure.
type Error struct {
	Kind     error  // one of the sentinel kinds
	Entity   string // Task, Receipt, Rating, ... or the component name
	Field    string // register id, parameter or precondition name
	Expected string
	Actual   string
	Err      error // underlying cause, may be nil
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Entity != "" || e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.Entity != "" && e.Field != "" {
			b.WriteString(".")
		}
		b.WriteString(e.Field)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", e.Expected, e.Actual)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Decode reports a malformed register or wire value.
func Decode(entity, field string, err error) error {
	return &Error{Kind: ErrDecode, Entity: entity, Field: field, Err: err}
}

// InvalidParameter reports a caller-supplied value outside its allowed range.
func InvalidParameter(field, expected, actual string) error {
	return &Error{Kind: ErrInvalidParameters, Field: field, Expected: expected, Actual: actual}
}

// Precondition reports a ledger state that does not allow the requested transition.
func Precondition(entity, precondition, expected, actual string) error {
	return &Error{Kind: ErrPreconditionFailed, Entity: entity, Field: precondition, Expected: expected, Actual: actual}
}

// CommitmentMismatch reports a reveal that does not hash to the stored commitment.
func CommitmentMismatch(entity, expected, actual string) error {
	return &Error{Kind: ErrCommitmentMismatch, Entity: entity, Field: "commitment", Expected: expected, Actual: actual}
}

// DataIntegrity reports contradictory ledger state.
func DataIntegrity(entity, field, detail string) error {
	return &Error{Kind: ErrDataIntegrity, Entity: entity, Field: field, Err: stderrors.New(detail)}
}

// NotFound reports an absent record.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Field: id}
}

// Conflict reports a submission that lost a race for the same input.
func Conflict(entity, id string, err error) error {
	return &Error{Kind: ErrConflict, Entity: entity, Field: id, Err: err}
}

// Transport reports a gateway failure.
func Transport(component string, err error) error {
	return &Error{Kind: ErrTransport, Entity: component, Err: err}
}

// Errorf is fmt.Errorf, kept here so callers need a single errors import.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// New is errors.New.
func New(text string) error {
	return stderrors.New(text)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
