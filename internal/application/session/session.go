// Package session holds the input collector state: one in-flight
// assessment per session and the last result or error.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
)

var (
	ErrInFlight = errors.New("an assessment is already in progress")
	ErrNotFound = errors.New("session not found")
)

// Analyzer produces one assessment per call.
type Analyzer interface {
	Analyze(ctx context.Context, in blast.RiskInput) (*blast.BlastAnalysis, error)
}

// State is a snapshot of a session. Loading, Analysis and Error are never
// set from different submissions.
type State struct {
	ID         string               `json:"id"`
	Input      blast.RiskInput      `json:"input"`
	Loading    bool                 `json:"loading"`
	Analysis   *blast.BlastAnalysis `json:"analysis,omitempty"`
	Advisories []string             `json:"advisories,omitempty"`
	Error      string               `json:"error,omitempty"`
	ErrorKind  ai.Kind              `json:"errorKind,omitempty"`
}

// Session is safe for concurrent use.
type Session struct {
	id       string
	analyzer Analyzer

	mu       sync.Mutex
	input    blast.RiskInput
	loading  bool
	analysis *blast.BlastAnalysis
	errMsg   string
	errKind  ai.Kind
	epoch    int
	touched  time.Time
	now      func() time.Time
}

func New(id string, analyzer Analyzer) *Session {
	return newSession(id, analyzer, time.Now)
}

func newSession(id string, analyzer Analyzer, now func() time.Time) *Session {
	return &Session{id: id, analyzer: analyzer, now: now, touched: now()}
}

func (s *Session) ID() string { return s.id }

// SetDraft stores the collector's current field values.
func (s *Session) SetDraft(in blast.RiskInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = in
	s.touched = s.now()
}

// CanSubmit reports whether in may be submitted right now.
func (s *Session) CanSubmit(in blast.RiskInput) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return blast.IsValid(in) && !s.loading
}

// Submit runs one assessment. The previous result and error are cleared
// when the request starts, and loading is cleared on every outcome. On
// failure the stored message is ai.UserMessage and the classified error is
// returned to the caller.
func (s *Session) Submit(ctx context.Context, in blast.RiskInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrInFlight
	}
	s.loading = true
	s.epoch++
	epoch := s.epoch
	s.input = in
	s.analysis = nil
	s.errMsg = ""
	s.errKind = ""
	s.touched = s.now()
	s.mu.Unlock()

	var (
		a   *blast.BlastAnalysis
		err error
	)
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.loading = false
		s.touched = s.now()
		if epoch != s.epoch {
			return
		}
		if err != nil {
			s.errMsg = ai.UserMessage
			s.errKind, _ = ai.KindOf(err)
			return
		}
		s.analysis = a
	}()

	a, err = s.analyzer.Analyze(ctx, in)
	return err
}

// Reset discards the result, the error and the draft. An in-flight
// request keeps running but its outcome is dropped when it returns.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.input = blast.RiskInput{}
	s.analysis = nil
	s.errMsg = ""
	s.errKind = ""
	s.touched = s.now()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		ID:        s.id,
		Input:     s.input,
		Loading:   s.loading,
		Analysis:  s.analysis,
		Error:     s.errMsg,
		ErrorKind: s.errKind,
	}
	if s.analysis != nil {
		st.Advisories = s.analysis.Advisories()
	}
	return st
}

func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched, s.loading
}
