package database

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Conn is the part of a pooled connection the executors use.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Lease is exclusive ownership of one pooled connection until Release.
type Lease struct {
	conn    Conn
	release func()
	once    sync.Once
}

// NewLease pairs a connection with the function that hands it back.
func NewLease(conn Conn, release func()) *Lease {
	return &Lease{conn: conn, release: release}
}

// Conn returns the leased connection
func (l *Lease) Conn() Conn {
	return l.conn
}

// Release returns the connection to the pool. Safe to call more than once.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.release != nil {
			l.release()
		}
	})
}
