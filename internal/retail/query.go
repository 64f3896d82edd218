package retail

import (
	"context"

	"github.com/pgElephant/RetailMCP/internal/database"
	"github.com/pgElephant/RetailMCP/internal/results"
)

// ExecuteQuery runs caller-supplied SQL verbatim. Row-level security on the
// bound identity is the only restriction applied; database errors are
// reported in the envelope.
func (s *Store) ExecuteQuery(ctx context.Context, sql string, rlsUserID string) (*results.Envelope, error) {
	var rows []*results.RawRow
	err := s.withConn(ctx, rlsUserID, func(conn database.Conn) error {
		var err error
		rows, err = collect(ctx, conn, sql)
		return err
	})

	return s.envelope("sales query", err, "PostgreSQL query failed: ", func() *results.Envelope {
		return results.Success(rows, noResultsMessage)
	})
}
