// Package apperr provides structured errors with machine-readable codes.
// The code plus a human-readable message is the only wire contract the core
// owns; handlers map kinds to HTTP statuses at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping and caller recovery.
type Kind int

const (
	// KindInternal is an unexpected failure. Callers should not retry blindly.
	KindInternal Kind = iota
	// KindNotFound covers both genuinely absent entities and entities hidden
	// by tenant scoping. The two are indistinguishable on purpose, so callers
	// cannot probe for another organization's data.
	KindNotFound
	// KindConflict is a state-machine precondition violation, including
	// lost-race outcomes of conditional transitions.
	KindConflict
	// KindInvalidRelation is a cross-entity referential mismatch, e.g. a unit
	// that does not belong to the given property.
	KindInvalidRelation
	// KindInvalid is malformed or missing input.
	KindInvalid
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidRelation Code = "INVALID_RELATION"

	// Lease activation
	CodeLeaseAlreadyActive Code = "LEASE_ALREADY_ACTIVE"
	CodeLeaseStatusInvalid Code = "LEASE_STATUS_INVALID"
	CodeUnitNotVacant      Code = "UNIT_NOT_VACANT"

	// Payment settlement
	CodePaymentStatusInvalidForMarkPaid Code = "PAYMENT_STATUS_INVALID_FOR_MARK_PAID"

	// Uniqueness
	CodeRenterContactTaken Code = "RENTER_CONTACT_TAKEN"
)

// Error is a domain error carrying a kind and a wire code.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds an Error with an explicit kind and code.
func New(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error with the generic NOT_FOUND code.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, CodeNotFound, format, args...)
}

// Conflict builds a KindConflict error with the given code.
func Conflict(code Code, format string, args ...any) *Error {
	return New(KindConflict, code, format, args...)
}

// InvalidRelation builds a KindInvalidRelation error.
func InvalidRelation(format string, args ...any) *Error {
	return New(KindInvalidRelation, CodeInvalidRelation, format, args...)
}

// Invalid builds a KindInvalid error with the generic INVALID_INPUT code.
func Invalid(format string, args ...any) *Error {
	return New(KindInvalid, CodeInvalidInput, format, args...)
}

// KindOf extracts the kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the code from err, defaulting to UNKNOWN.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code surfaced at the API
// boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidRelation, KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
