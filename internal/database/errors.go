package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrPoolUnavailable is returned when the pool was never opened or has been closed.
	ErrPoolUnavailable = errors.New("no database connection pool available")
	// ErrPoolExhausted is returned when no connection frees up within the acquire timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")
)

// SecurityBindError means the row-level security identity could not be set on a
// connection. No query may run on that connection for the request.
type SecurityBindError struct {
	UserID string
	Err    error
}

func (e *SecurityBindError) Error() string {
	return fmt.Sprintf("failed to bind security context: %v", e.Err)
}

func (e *SecurityBindError) Unwrap() error {
	return e.Err
}

// QueryError wraps any failure reported while running a statement: syntax,
// permission, constraint or timeout.
type QueryError struct {
	Err error
}

// NewQueryError wraps err unless it is already a QueryError.
func NewQueryError(err error) *QueryError {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}
	return &QueryError{Err: err}
}

func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// SQLState returns the PostgreSQL error code when the server reported one.
func (e *QueryError) SQLState() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsHardFailure reports errors that must not be folded into a result envelope.
func IsHardFailure(err error) bool {
	var bindErr *SecurityBindError
	return errors.Is(err, ErrPoolUnavailable) ||
		errors.Is(err, ErrPoolExhausted) ||
		errors.As(err, &bindErr)
}
