package diagnostics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	domain "github.com/sakshisonawane10/Blast-Radius/internal/domain/diagnostics"
	"github.com/sakshisonawane10/Blast-Radius/internal/logging"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memRepo struct {
	mu    sync.Mutex
	saved []*domain.Failure
	err   error
}

func (m *memRepo) Save(_ context.Context, f *domain.Failure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, f)
	return nil
}

func (m *memRepo) ListRecent(_ context.Context, kind string, limit int) ([]*domain.Failure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Failure
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if kind == "" || m.saved[i].Kind == kind {
			out = append(out, m.saved[i])
		}
	}
	return out, nil
}

type memQuarantine struct {
	keys    []string
	payload map[string][]byte
	err     error
}

func (q *memQuarantine) Put(_ context.Context, key string, payload []byte) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	if q.payload == nil {
		q.payload = map[string][]byte{}
	}
	q.keys = append(q.keys, key)
	q.payload[key] = payload
	return "s3://quarantine/" + key, nil
}

var now = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

func TestRecordMalformedQuarantinesPayload(t *testing.T) {
	repo := &memRepo{}
	q := &memQuarantine{}
	r := NewRecorder(repo, q, fixedClock{now}, logging.Discard())

	err := r.Record(context.Background(), ai.MalformedResponseError("schema mismatch", nil), `{"scores":`)
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	f := repo.saved[0]
	assert.Equal(t, "malformed_response", f.Kind)
	assert.Equal(t, now, f.CreatedAt)
	assert.NotEmpty(t, f.ID)
	require.Len(t, q.keys, 1)
	assert.Equal(t, "malformed/2026/10/19/"+f.ID+".json", q.keys[0])
	assert.Equal(t, "s3://quarantine/"+q.keys[0], f.PayloadRef)
	assert.Equal(t, []byte(`{"scores":`), q.payload[q.keys[0]])
}

func TestRecordTransportSkipsQuarantine(t *testing.T) {
	repo := &memRepo{}
	q := &memQuarantine{}
	r := NewRecorder(repo, q, fixedClock{now}, logging.Discard())

	e := &ai.Error{Kind: ai.KindTransport, Provider: "openai", Model: "gpt-4o", Status: 503, Cause: errors.New("unavailable")}
	require.NoError(t, r.Record(context.Background(), e, ""))

	assert.Empty(t, q.keys)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 503, repo.saved[0].Status)
	assert.Equal(t, "openai", repo.saved[0].Provider)
	assert.Empty(t, repo.saved[0].PayloadRef)
}

func TestRecordKeepsRecordWhenQuarantineFails(t *testing.T) {
	repo := &memRepo{}
	r := NewRecorder(repo, &memQuarantine{err: errors.New("bucket gone")}, fixedClock{now}, logging.Discard())

	require.NoError(t, r.Record(context.Background(), ai.MalformedResponseError("bad", nil), "nope"))
	require.Len(t, repo.saved, 1)
	assert.Empty(t, repo.saved[0].PayloadRef)
}

func TestRecordSaveError(t *testing.T) {
	r := NewRecorder(&memRepo{err: errors.New("db down")}, nil, fixedClock{now}, logging.Discard())
	assert.Error(t, r.Record(context.Background(), ai.EmptyResponseError(), ""))
}

func TestRecentFiltersKind(t *testing.T) {
	repo := &memRepo{}
	r := NewRecorder(repo, nil, fixedClock{now}, logging.Discard())
	ctx := context.Background()
	require.NoError(t, r.Record(ctx, ai.EmptyResponseError(), ""))
	require.NoError(t, r.Record(ctx, ai.TransportError(errors.New("x")), ""))

	got, err := r.Recent(ctx, "empty_response", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "empty_response", got[0].Kind)
}
