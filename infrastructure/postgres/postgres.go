// Package postgres implements the vote and result stores on PostgreSQL
// using pgx connection pooling. Reads are one-shot bulk selects; result
// writes replace a year's roster atomically in a single transaction.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ahrav/go-mandate/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.VoteStore   = (*Store)(nil)
	_ ports.ResultStore = (*Store)(nil)
)

const defaultConnTimeout = 5 * time.Second

// Config holds the connection parameters for the store.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN renders the pgx connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Store is a PostgreSQL-backed implementation of both stores.
type Store struct {
	pool *pgxpool.Pool
}

// New connects a Store using the given configuration. The initial
// connection is verified with a ping so misconfiguration surfaces at
// startup rather than on the first query.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, ports.NewStoreError("ping", cfg.Database, ports.ErrUnavailable)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() { s.pool.Close() }
