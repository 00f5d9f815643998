package assess

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sakshisonawane10/Blast-Radius/internal/application"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/prompt"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/schema"
	"github.com/sakshisonawane10/Blast-Radius/internal/logging"
)

const previewLen = 512

// FailureRecorder receives every classified failure. payload is the raw
// response text when one was received.
type FailureRecorder interface {
	Record(ctx context.Context, e *ai.Error, payload string) error
}

// Options configures a Service. Credential is the provider key resolved by
// the caller; an empty value fails every call without contacting the
// provider.
type Options struct {
	Provider   string
	Model      string
	Credential string
	Timeout    time.Duration

	Logger   *slog.Logger
	Metrics  *Metrics
	Recorder FailureRecorder
	Clock    application.Clock
	Tracer   trace.Tracer
}

// Service turns one RiskInput into one BlastAnalysis with a single
// generation call. It keeps no state between calls.
type Service struct {
	gen  ai.Generator
	opts Options
}

func NewService(gen ai.Generator, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Clock == nil {
		opts.Clock = application.SystemClock{}
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("blast.assess")
	}
	return &Service{gen: gen, opts: opts}
}

// Analyze validates in, requests an assessment and checks the result.
// Failures are *ai.Error values, except invalid input which wraps
// blast.ErrInvalidInput and is never sent.
func (s *Service) Analyze(ctx context.Context, in blast.RiskInput) (*blast.BlastAnalysis, error) {
	ctx, span := s.opts.Tracer.Start(ctx, "assess.Analyze",
		trace.WithAttributes(
			attribute.String("ai.provider", s.opts.Provider),
			attribute.String("ai.model", s.opts.Model),
		),
	)
	defer span.End()
	start := s.opts.Clock.Now()

	a, payload, err := s.analyze(ctx, in)

	outcome := "success"
	if err != nil {
		outcome = "invalid_input"
		if kind, ok := ai.KindOf(err); ok {
			outcome = string(kind)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	} else {
		span.SetStatus(codes.Ok, "")
		span.SetAttributes(
			attribute.Int("blast.total_score", a.TotalScore),
			attribute.String("blast.level", string(a.OverallRiskLevel)),
		)
	}
	span.SetAttributes(attribute.String("blast.outcome", outcome))
	s.opts.Metrics.observe(outcome, application.Since(s.opts.Clock, start).Seconds())

	var aerr *ai.Error
	if errors.As(err, &aerr) {
		s.report(ctx, aerr, payload)
	}
	return a, err
}

func (s *Service) analyze(ctx context.Context, in blast.RiskInput) (*blast.BlastAnalysis, string, error) {
	if strings.TrimSpace(s.opts.Credential) == "" {
		return nil, "", s.stamp(ai.ConfigurationError("API key is not set"))
	}
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	req := ai.Request{
		Model:      s.opts.Model,
		System:     prompt.System,
		User:       prompt.User(in),
		SchemaName: schema.Name,
		Schema:     schema.JSON(),
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	payload, err := s.gen.Generate(ctx, req)
	if err != nil {
		var aerr *ai.Error
		if errors.As(err, &aerr) {
			return nil, "", s.stamp(aerr)
		}
		return nil, "", s.stamp(ai.TransportError(err))
	}
	if strings.TrimSpace(payload) == "" {
		return nil, "", s.stamp(ai.EmptyResponseError())
	}

	a, err := schema.Decode([]byte(payload))
	if err != nil {
		return nil, payload, s.stamp(ai.MalformedResponseError("payload does not match schema", err))
	}
	if err := a.Validate(); err != nil {
		return nil, payload, s.stamp(ai.MalformedResponseError("analysis is inconsistent", err))
	}
	return a, payload, nil
}

// stamp fills in provider and model when the adapter left them blank.
func (s *Service) stamp(e *ai.Error) *ai.Error {
	if e.Provider == "" {
		e.Provider = s.opts.Provider
	}
	if e.Model == "" {
		e.Model = s.opts.Model
	}
	return e
}

func (s *Service) report(ctx context.Context, e *ai.Error, payload string) {
	attrs := []any{
		"kind", e.Kind,
		"provider", e.Provider,
		"model", e.Model,
		"status", e.Status,
		"err", e,
	}
	if e.Kind == ai.KindMalformedResponse {
		s.opts.Logger.Warn("schema drift", append(attrs, "payload", logging.Preview(payload, previewLen))...)
	} else {
		s.opts.Logger.Error("assessment failed", attrs...)
	}

	if s.opts.Recorder == nil {
		return
	}
	// the caller may already be gone; the record should still land
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.opts.Recorder.Record(rctx, e, payload); err != nil {
		s.opts.Logger.Warn("record failure", "kind", e.Kind, "err", err)
	}
}
