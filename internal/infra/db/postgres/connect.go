package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS blast_failures (
  id          UUID         PRIMARY KEY,
  kind        VARCHAR(32)  NOT NULL,
  provider    VARCHAR(32)  NOT NULL,
  model       VARCHAR(128) NOT NULL,
  status      INTEGER      NOT NULL DEFAULT 0,
  message     TEXT         NOT NULL,
  payload_ref VARCHAR(512) NOT NULL,
  created_at  TIMESTAMPTZ  NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_blast_failures_kind_created ON blast_failures (kind, created_at DESC);`

// Migrate creates the failures table when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate blast_failures: %w", err)
	}
	return nil
}
