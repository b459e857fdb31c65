// Package repositories implements the data access layer (repository pattern)
// for the catalog service. Each repository type encapsulates all database
// queries for one entity. Handlers never issue SQL directly; all database
// access goes through this layer, which keeps query logic testable in
// isolation.
//
// Constraint violations are not crashes: unique-key and foreign-key errors
// from PostgreSQL are translated into the sentinel errors below so handlers
// can map them onto 400 responses with errors.Is.
package repositories

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate is returned when an insert or update violates a unique
	// constraint (domain name, user email, role name, field name per object).
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvalidReference is returned when a write names a row that does not
	// exist (foreign-key violation) or fails a check constraint.
	ErrInvalidReference = errors.New("invalid reference")
)

// Postgres error classes; see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps driver-level constraint violations onto the package
// sentinel errors, preserving the violated constraint name for logs.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrInvalidReference, pqErr.Constraint)
		}
	}
	return err
}
