package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgElephant/RetailMCP/internal/config"
)

// Database manages the PostgreSQL connection pool
type Database struct {
	mu             sync.RWMutex
	pool           *pgxpool.Pool
	closed         bool
	acquireTimeout time.Duration
}

// NewDatabase creates a new database instance
func NewDatabase() *Database {
	return &Database{}
}

// Open creates the pool and verifies the store is reachable.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*Database, error) {
	d := NewDatabase()
	if err := d.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// Connect connects to the database using the provided configuration. A
// Database is opened at most once; a closed Database stays closed.
func (d *Database) Connect(ctx context.Context, cfg *config.DatabaseConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrPoolUnavailable
	}
	if d.pool != nil {
		return nil
	}

	poolConfig, err := BuildPoolConfig(cfg)
	if err != nil {
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}

	d.pool = pool
	d.acquireTimeout = cfg.GetPool().GetConnectionTimeout()
	return nil
}

// BuildPoolConfig turns the configuration into pgxpool settings, including the
// per-session limits every pooled connection starts with.
func BuildPoolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(connectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	poolCfg := cfg.GetPool()
	poolConfig.MinConns = int32(poolCfg.GetMin())
	poolConfig.MaxConns = int32(poolCfg.GetMax())
	poolConfig.MaxConnIdleTime = poolCfg.GetIdleTimeout()
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	params := poolConfig.ConnConfig.RuntimeParams
	if !poolCfg.GetJIT() {
		params["jit"] = "off"
	}
	params["work_mem"] = poolCfg.GetWorkMem()
	params["statement_timeout"] = strconv.FormatInt(poolCfg.GetStatementTimeout().Milliseconds(), 10)

	poolConfig.AfterRelease = resetSecurityContext

	return poolConfig, nil
}

func connectionString(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != nil && *cfg.ConnectionString != "" {
		return *cfg.ConnectionString
	}

	password := ""
	if cfg.Password != nil {
		password = *cfg.Password
	}

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		quoteConnValue(cfg.GetHost()), cfg.GetPort(), quoteConnValue(cfg.GetUser()),
		quoteConnValue(password), quoteConnValue(cfg.GetDatabase()))

	switch ssl := cfg.SSL.(type) {
	case bool:
		if ssl {
			connStr += " sslmode=require"
		} else {
			connStr += " sslmode=disable"
		}
	case string:
		if ssl != "" {
			connStr += " sslmode=" + quoteConnValue(ssl)
		}
	}
	return connStr
}

func quoteConnValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Acquire borrows a connection. The caller owns it until Lease.Release.
func (d *Database) Acquire(ctx context.Context) (*Lease, error) {
	d.mu.RLock()
	pool, closed, timeout := d.pool, d.closed, d.acquireTimeout
	d.mu.RUnlock()

	if pool == nil || closed {
		return nil, ErrPoolUnavailable
	}

	acquireCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	conn, err := pool.Acquire(acquireCtx)
	if err != nil {
		if d.isClosed() {
			return nil, ErrPoolUnavailable
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("acquire connection: %w", ctxErr)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no connection available within %v", ErrPoolExhausted, timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrPoolExhausted, err)
	}

	return NewLease(conn, conn.Release), nil
}

func (d *Database) isClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Close drains and closes the pool. Calling it again does nothing.
func (d *Database) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	pool := d.pool
	d.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
}

// Ping checks that the store answers
func (d *Database) Ping(ctx context.Context) error {
	d.mu.RLock()
	pool, closed := d.pool, d.closed
	d.mu.RUnlock()
	if pool == nil || closed {
		return ErrPoolUnavailable
	}
	return pool.Ping(ctx)
}

// GetPoolStats returns pool statistics
func (d *Database) GetPoolStats() *PoolStats {
	d.mu.RLock()
	pool, closed := d.pool, d.closed
	d.mu.RUnlock()
	if pool == nil || closed {
		return nil
	}
	stats := pool.Stat()
	return &PoolStats{
		TotalConns:        stats.TotalConns(),
		AcquiredConns:     stats.AcquiredConns(),
		IdleConns:         stats.IdleConns(),
		ConstructingConns: stats.ConstructingConns(),
		MaxConns:          stats.MaxConns(),
		AcquireCount:      stats.AcquireCount(),
		EmptyAcquireCount: stats.EmptyAcquireCount(),
		CanceledAcquires:  stats.CanceledAcquireCount(),
	}
}

// PoolStats holds connection pool statistics
type PoolStats struct {
	TotalConns        int32 `json:"total_conns"`
	AcquiredConns     int32 `json:"acquired_conns"`
	IdleConns         int32 `json:"idle_conns"`
	ConstructingConns int32 `json:"constructing_conns"`
	MaxConns          int32 `json:"max_conns"`
	AcquireCount      int64 `json:"acquire_count"`
	EmptyAcquireCount int64 `json:"empty_acquire_count"`
	CanceledAcquires  int64 `json:"canceled_acquires"`
}
