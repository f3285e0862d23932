// Package errors is the single error package used across nodegraph.
//
// It re-exports github.com/cockroachdb/errors so call sites get stack traces,
// wrapping, hints and details without importing crdb directly:
//
//	if err := store.Import(ctx, g); err != nil {
//	    return errors.Wrap(err, "failed to import graph")
//	}
//
//	return errors.WithHint(err, "run 'nodegraph db stats' to inspect the database")
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf marks an internal invariant violation.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinels shared by the store, the server and the CLI.
// Wrap them to add context; check them with Is.
var (
	// ErrNotFound indicates the requested node, tag or file does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed query, message or import file
	ErrInvalidRequest = New("invalid request")

	// ErrServiceUnavailable indicates the server is shutting down or full
	ErrServiceUnavailable = New("service unavailable")

	// ErrClosed indicates an operation on a torn-down session or store
	ErrClosed = New("closed")

	// ErrConflict indicates a duplicate id during import
	ErrConflict = New("resource conflict")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidRequest, Newf(format, args...).Error())
}
