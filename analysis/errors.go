package analysis

import (
	"errors"
	"fmt"
)

// Kind classifies an analysis error so callers can decide how to react.
type Kind int

const (
	// KindValidation means the caller's input failed a precondition.
	// Client class: fix the request and resubmit, never retry as-is.
	KindValidation Kind = iota
	// KindCollaborator means a downstream engine failed.
	// Server class: safe to retry.
	KindCollaborator
	// KindAggregation means combining engine results failed.
	// Server class.
	KindAggregation
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCollaborator:
		return "collaborator"
	case KindAggregation:
		return "aggregation"
	default:
		return "unknown"
	}
}

// Sentinel errors for request validation.
var (
	// ErrMissingArchitecture indicates architecture_data was absent or empty.
	ErrMissingArchitecture = errors.New("analysis: architecture_data is required")

	// ErrMissingServices indicates services data was absent or empty.
	ErrMissingServices = errors.New("analysis: services data is required")

	// ErrMissingPayload indicates neither payload was present.
	ErrMissingPayload = errors.New("analysis: either architecture_data or services data is required")
)

// Error is an analysis failure tagged with a Kind.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "whitepaper"
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("analysis: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// validation wraps err as a client-class error.
func validation(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// collaborator wraps err as a server-class engine failure.
func collaborator(op string, err error) *Error {
	return &Error{Kind: KindCollaborator, Op: op, Err: err}
}

// KindOf extracts the Kind from an error. Errors that did not originate
// from this package are treated as collaborator failures.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindCollaborator
}
