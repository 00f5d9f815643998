package diagnostics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sakshisonawane10/Blast-Radius/internal/application"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	domain "github.com/sakshisonawane10/Blast-Radius/internal/domain/diagnostics"
)

// Recorder turns classified failures into diagnostics records. Quarantine
// is optional; without it malformed payloads are dropped.
type Recorder struct {
	repo       domain.Repository
	quarantine domain.Quarantine
	clock      application.Clock
	log        *slog.Logger
}

func NewRecorder(repo domain.Repository, quarantine domain.Quarantine, clock application.Clock, log *slog.Logger) *Recorder {
	if clock == nil {
		clock = application.SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{repo: repo, quarantine: quarantine, clock: clock, log: log}
}

// Record saves e. For malformed responses the raw payload is quarantined
// first so the record can point at it.
func (r *Recorder) Record(ctx context.Context, e *ai.Error, payload string) error {
	now := r.clock.Now().UTC()
	f := &domain.Failure{
		ID:        uuid.NewString(),
		Kind:      string(e.Kind),
		Provider:  e.Provider,
		Model:     e.Model,
		Status:    e.Status,
		Message:   e.Error(),
		CreatedAt: now,
	}

	if r.quarantine != nil && e.Kind == ai.KindMalformedResponse && payload != "" {
		key := fmt.Sprintf("malformed/%s/%s.json", now.Format("2006/01/02"), f.ID)
		ref, err := r.quarantine.Put(ctx, key, []byte(payload))
		if err != nil {
			// keep the record even if the payload could not be stored
			r.log.Warn("quarantine payload", "id", f.ID, "err", err)
		} else {
			f.PayloadRef = ref
		}
	}

	if err := r.repo.Save(ctx, f); err != nil {
		return fmt.Errorf("save failure %s: %w", f.ID, err)
	}
	return nil
}

// Recent lists the newest failures, optionally filtered by kind.
func (r *Recorder) Recent(ctx context.Context, kind string, limit int) ([]*domain.Failure, error) {
	return r.repo.ListRecent(ctx, kind, limit)
}
