// Package deletion implements guarded cascading deletion for
// entities with dependent records.  Each deletable entity type is
// described by a static Descriptor (which dependents to clear, in
// which order, and which guard predicates must hold) and a single
// generic Executor interprets the descriptor inside one database
// transaction.  Handlers translate the errors defined here into
// HTTP responses.
package deletion

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the entity to delete does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("entity not found")

// BlockedError is returned when a guard predicate vetoes the
// deletion, e.g. a book whose copies still have active loans.
// Nothing has been mutated when this error is returned.  Handlers
// should translate it into an HTTP 400 response carrying Reason.
type BlockedError struct {
	Entity string // descriptor entity name, e.g. "libro"
	Reason string // human-readable refusal, shown to the caller
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("cannot delete %s: %s", e.Entity, e.Reason)
}

// ConstraintError is returned when the database rejects part of the
// cascade with a referential-integrity error.  Reaching it means a
// descriptor is missing a dependent table; it is a defect signal,
// not normal control flow.
type ConstraintError struct {
	Code   uint16 // MySQL error number (1451/1452)
	Detail string // driver-provided message
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("referential constraint violated (%d): %s", e.Code, e.Detail)
}
