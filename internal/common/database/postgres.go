package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"site-integrations/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection shared by the relational
// content backend and the contacts repository.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled PostgreSQL handle. It does not dial; use Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
