package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakshisonawane10/Blast-Radius/internal/application/session"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/diagnostics"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/schema"
	"github.com/sakshisonawane10/Blast-Radius/internal/logging"
	"github.com/sakshisonawane10/Blast-Radius/internal/middleware"
	"github.com/sakshisonawane10/Blast-Radius/internal/render"
)

const maxBodyBytes = 64 << 10

// FailureLister reads recorded failures.
type FailureLister interface {
	Recent(ctx context.Context, kind string, limit int) ([]*diagnostics.Failure, error)
}

// Deps are the collaborators the router serves. Failures, Metrics, Limiter
// and Checkers are optional.
type Deps struct {
	Analyzer    session.Analyzer
	Sessions    *session.Registry
	Pages       *render.Pages
	Failures    FailureLister
	Checkers    map[string]middleware.HealthChecker
	Metrics     *middleware.HTTPMetrics
	Limiter     *middleware.RateLimiter
	APIKeys     map[string]string
	CORSOrigins []string
	Logger      *slog.Logger
}

type Router struct {
	Deps
}

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	r := &Router{Deps: d}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	mux.Use(middleware.Logging(d.Logger))
	if len(d.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: d.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}

	mux.Get("/health", middleware.HealthHandler(d.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	mux.Get("/", r.handlePage)
	mux.With(r.limit).Post("/assess", r.handlePageSubmit)
	mux.Post("/reset", r.handlePageReset)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(d.APIKeys))

		rt.Get("/schema", r.wrap(r.handleSchema))
		rt.With(r.limit).Post("/analyze", r.wrap(r.handleAnalyze))

		rt.Post("/sessions", r.wrap(r.handleSessionCreate))
		rt.Route("/sessions/{id}", func(st chi.Router) {
			st.Get("/", r.wrap(r.handleSessionGet))
			st.With(r.limit).Post("/submit", r.wrap(r.handleSessionSubmit))
			st.Post("/reset", r.wrap(r.handleSessionReset))
			st.Delete("/", r.wrap(r.handleSessionDelete))
		})

		if d.Failures != nil {
			rt.Get("/diagnostics/failures", r.wrap(r.handleFailures))
		}
	})

	return mux
}

func (r *Router) limit(next http.Handler) http.Handler {
	if r.Limiter == nil {
		return next
	}
	return r.Limiter.Middleware(next)
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

// wrap maps handler errors to responses. Classified assessment failures
// only ever expose the generic message and the kind.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var inputErr *blast.InputError
		var br badRequest
		switch {
		case errors.As(err, &inputErr):
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "context, proposedFeature and intendedOutcome are required",
				"fields": inputErr.Fields,
			})
		case errors.As(err, &br):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": br.Error()})
		case errors.Is(err, session.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		case errors.Is(err, session.ErrInFlight):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			if kind, ok := ai.KindOf(err); ok {
				status := http.StatusBadGateway
				if kind == ai.KindConfiguration {
					status = http.StatusServiceUnavailable
				}
				writeJSON(w, status, map[string]string{"error": ai.UserMessage, "kind": string(kind)})
				return
			}
			r.Logger.Error("request failed", "path", req.URL.Path, "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeInput(w http.ResponseWriter, req *http.Request) (blast.RiskInput, error) {
	var in blast.RiskInput
	body := http.MaxBytesReader(w, req.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&in); err != nil {
		return in, badRequest{fmt.Errorf("invalid JSON body: %w", err)}
	}
	return in, nil
}

// GET /v1/schema
func (r *Router) handleSchema(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/schema+json")
	_, err := w.Write(schema.JSON())
	return err
}

type analyzeResponse struct {
	Analysis   *blast.BlastAnalysis `json:"analysis"`
	Advisories []string             `json:"advisories,omitempty"`
}

// POST /v1/analyze
// Body: RiskInput. Stateless; nothing is kept after the response.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	in, err := decodeInput(w, req)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	a, err := r.Analyzer.Analyze(req.Context(), in)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: a, Advisories: a.Advisories()})
	return nil
}

func (r *Router) sessionFromURL(req *http.Request) (*session.Session, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateSessionID(id); err != nil {
		return nil, session.ErrNotFound
	}
	return r.Sessions.Get(id)
}

// POST /v1/sessions
func (r *Router) handleSessionCreate(w http.ResponseWriter, _ *http.Request) error {
	s := r.Sessions.Create()
	writeJSON(w, http.StatusCreated, s.State())
	return nil
}

// GET /v1/sessions/{id}
func (r *Router) handleSessionGet(w http.ResponseWriter, req *http.Request) error {
	s, err := r.sessionFromURL(req)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, s.State())
	return nil
}

// POST /v1/sessions/{id}/submit
// Body: RiskInput. Blocks until the assessment finishes.
func (r *Router) handleSessionSubmit(w http.ResponseWriter, req *http.Request) error {
	s, err := r.sessionFromURL(req)
	if err != nil {
		return err
	}
	in, err := decodeInput(w, req)
	if err != nil {
		return err
	}
	if err := s.Submit(req.Context(), in); err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, s.State())
	return nil
}

// POST /v1/sessions/{id}/reset
func (r *Router) handleSessionReset(w http.ResponseWriter, req *http.Request) error {
	s, err := r.sessionFromURL(req)
	if err != nil {
		return err
	}
	s.Reset()
	writeJSON(w, http.StatusOK, s.State())
	return nil
}

// DELETE /v1/sessions/{id}
func (r *Router) handleSessionDelete(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := r.Sessions.Delete(id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GET /v1/diagnostics/failures?kind=&limit=
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	kind := q.Get("kind")
	if err := middleware.ValidateKind(kind); err != nil {
		return badRequest{err}
	}
	ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
	defer cancel()
	list, err := r.Failures.Recent(ctx, kind, middleware.QueryLimit(q))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*diagnostics.Failure{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}
