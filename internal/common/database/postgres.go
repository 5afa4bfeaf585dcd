// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"placement-workers/internal/common/config"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const pingTimeout = 3 * time.Second

// PostgresClient owns the pool behind the postgres store.
type PostgresClient struct {
	DB   *sql.DB
	name string
}

// NewPostgres opens the pool; the first Ping establishes the connection.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewPostgresFromDB(db, cfg.Database), nil
}

// NewPostgresFromDB wraps an existing pool. name labels the pool metrics.
func NewPostgresFromDB(db *sql.DB, name string) *PostgresClient {
	if name == "" {
		name = "placement"
	}
	return &PostgresClient{DB: db, name: name}
}

// Ping bounds the check by pingTimeout when ctx carries no deadline, so a
// readiness probe never hangs on a dead pool.
func (c *PostgresClient) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// RegisterStats exports the pool's sql.DBStats. Registering the same pool
// twice is not an error.
func (c *PostgresClient) RegisterStats(reg prometheus.Registerer) error {
	err := reg.Register(collectors.NewDBStatsCollector(c.DB, c.name))
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return nil
	}
	return err
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
