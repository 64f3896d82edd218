package retail

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/logging"
	"github.com/pgElephant/RetailMCP/internal/results"
)

const (
	// Schema holds every table the server exposes
	Schema = "retail"

	noResultsMessage = "The query returned no results. Try a different question."
)

// Pool hands out leased connections. *database.Database satisfies it.
type Pool interface {
	Acquire(ctx context.Context) (*database.Lease, error)
}

// Store runs the retail queries. Every call borrows one connection, binds
// the caller's RLS identity on it, runs its statement and gives it back.
type Store struct {
	pool   Pool
	logger *logging.Logger
}

// NewStore creates a new store
func NewStore(pool Pool, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{pool: pool, logger: logger}
}

// withConn leases a connection bound to rlsUserID for the duration of fn.
// The lease is returned on every path.
func (s *Store) withConn(ctx context.Context, rlsUserID string, fn func(conn database.Conn) error) error {
	lease, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	if err := database.BindSecurityContext(ctx, lease.Conn(), rlsUserID); err != nil {
		return err
	}
	return fn(lease.Conn())
}

// collect runs one statement and drains its rows
func collect(ctx context.Context, conn database.Conn, sql string, args ...any) ([]*results.RawRow, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.NewQueryError(err)
	}
	raw, err := results.Collect(rows)
	if err != nil {
		return nil, database.NewQueryError(err)
	}
	return raw, nil
}

// envelope turns an executor outcome into a result envelope. Pool and
// security failures are passed through untouched.
func (s *Store) envelope(op string, err error, failurePrefix string, success func() *results.Envelope) (*results.Envelope, error) {
	if err == nil {
		return success(), nil
	}
	if database.IsHardFailure(err) {
		s.logger.Error(op+" aborted", err, nil)
		return nil, err
	}

	fields := map[string]interface{}{"operation": op}
	var qe *database.QueryError
	if errors.As(err, &qe) && qe.SQLState() != "" {
		fields["sqlstate"] = qe.SQLState()
	}
	s.logger.Warn(fmt.Sprintf("%s failed: %v", op, err), fields)
	return results.Failure(failurePrefix + err.Error()), nil
}
