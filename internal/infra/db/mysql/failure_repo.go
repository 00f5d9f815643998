package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/sakshisonawane10/Blast-Radius/internal/domain/diagnostics"
)

type FailureRepository struct {
	db *sql.DB
}

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO blast_failures
  (id, kind, provider, model, status, message, payload_ref, created_at)
VALUES (?,?,?,?,?,?,?,?)
`
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, q,
		f.ID,
		stringOrDash(f.Kind),
		stringOrDash(f.Provider),
		stringOrDash(f.Model),
		f.Status,
		stringOrDash(f.Message),
		f.PayloadRef,
		created,
	)
	return err
}

func (r *FailureRepository) ListRecent(ctx context.Context, kind string, limit int) ([]*domain.Failure, error) {
	limit = clampLimit(limit)
	const q = `
SELECT id, kind, provider, model, status, message, payload_ref, created_at
FROM blast_failures
WHERE (? = '' OR kind = ?)
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, kind, kind, limit)
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
		f.Provider = dashToEmpty(f.Provider)
		f.Model = dashToEmpty(f.Model)
		out = append(out, &f)
	}
	return out, rows.Err()
}
