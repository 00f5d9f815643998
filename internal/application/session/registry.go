package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps sessions in memory only. Idle sessions are dropped by
// Sweep; sessions with a request in flight are kept.
type Registry struct {
	analyzer Analyzer
	idle     time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(analyzer Analyzer, idle time.Duration) *Registry {
	return &Registry{
		analyzer: analyzer,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.analyzer, r.now)
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle longer than the configured duration and
// returns how many were removed.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		touched, loading := s.idleSince()
		if !loading && touched.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep()
		}
	}
}
