package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS blast_failures (
  id          CHAR(36)     NOT NULL PRIMARY KEY,
  kind        VARCHAR(32)  NOT NULL,
  provider    VARCHAR(32)  NOT NULL,
  model       VARCHAR(128) NOT NULL,
  status      INT          NOT NULL DEFAULT 0,
  message     TEXT         NOT NULL,
  payload_ref VARCHAR(512) NOT NULL,
  created_at  DATETIME(3)  NOT NULL,
  KEY idx_blast_failures_kind_created (kind, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Migrate creates the failures table when missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate blast_failures: %w", err)
	}
	return nil
}
