package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	domain "github.com/sakshisonawane10/Blast-Radius/internal/domain/diagnostics"
)

type FailureRepository struct{ db *sql.DB }

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

// Save inserts a failure record; a repeated id is ignored.
func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO blast_failures
(id, kind, provider, model, status, message, payload_ref, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO NOTHING;`

	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		f.ID, stringOrDash(f.Kind), stringOrDash(f.Provider), stringOrDash(f.Model),
		f.Status, stringOrDash(f.Message), f.PayloadRef, created,
	)
	return err
}

func (r *FailureRepository) ListRecent(ctx context.Context, kind string, limit int) ([]*domain.Failure, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	const q = `
SELECT id, kind, provider, model, status, message, payload_ref, created_at
FROM blast_failures
WHERE ($1::text = '' OR kind = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, kind, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		if err := rows.Scan(&f.ID, &f.Kind, &f.Provider, &f.Model, &f.Status, &f.Message, &f.PayloadRef, &f.CreatedAt); err != nil {
			return nil, err
		}
		if f.Provider == "-" {
			f.Provider = ""
		}
		if f.Model == "-" {
			f.Model = ""
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
