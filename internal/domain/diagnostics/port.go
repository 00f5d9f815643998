package diagnostics

import (
	"context"
)

// Repository persists failure records.
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	ListRecent(ctx context.Context, kind string, limit int) ([]*Failure, error)
}

// Quarantine stores a malformed payload and returns a reference to it.
type Quarantine interface {
	Put(ctx context.Context, key string, payload []byte) (string, error)
}
