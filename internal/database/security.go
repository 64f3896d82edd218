package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	// RLSSetting is the session variable the retail RLS policies read.
	RLSSetting = "app.current_rls_user_id"

	// DefaultRLSUserID means "no identity": policies grant it nothing.
	DefaultRLSUserID = "00000000-0000-0000-0000-000000000000"

	bindSecurityContextSQL = "SELECT set_config('" + RLSSetting + "', $1, false)"

	resetTimeout = 2 * time.Second
)

// BindSecurityContext sets the RLS identity on conn for the rest of its session.
// It has to run on every borrowed connection before any other statement.
func BindSecurityContext(ctx context.Context, conn Conn, rlsUserID string) error {
	if rlsUserID == "" {
		rlsUserID = DefaultRLSUserID
	}
	if _, err := conn.Exec(ctx, bindSecurityContextSQL, rlsUserID); err != nil {
		return &SecurityBindError{UserID: rlsUserID, Err: err}
	}
	return nil
}

// resetSecurityContext runs after a connection is released. Returning false
// makes the pool destroy the connection instead of reusing it.
func resetSecurityContext(conn *pgx.Conn) bool {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()
	return BindSecurityContext(ctx, conn, DefaultRLSUserID) == nil
}
