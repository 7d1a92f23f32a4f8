// Package service orchestrates fiscal code generation: it resolves the
// municipality of birth and feeds the validated person through the encoders.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/fiscalcode/metrics"
	"fiscalcode/internal/municipality"
	"fiscalcode/pkg/domain"
	dErrors "fiscalcode/pkg/domain-errors"
	"fiscalcode/pkg/requestcontext"
)

const (
	tracerName              = "fiscalcode/internal/fiscalcode/service"
	defaultBatchConcurrency = 8
)

// Service generates fiscal codes.
type Service struct {
	resolver         municipality.Resolver
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBatchConcurrency bounds the number of concurrent generations per batch.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// New constructs a Service. The resolver is required.
func New(resolver municipality.Resolver, opts ...Option) (*Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("municipality resolver is required")
	}
	s := &Service{
		resolver:         resolver,
		tracer:           otel.Tracer(tracerName),
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Generate resolves p's municipality and returns the fiscal code. An unknown
// municipality yields a CodeNotFound domain error that also satisfies
// municipality.IsNotFound; no code is produced.
func (s *Service) Generate(ctx context.Context, p domain.Person) (fiscalcode.FiscalCode, error) {
	ctx, span := s.tracer.Start(ctx, "fiscalcode.Generate",
		trace.WithAttributes(attribute.String("municipality", p.Municipality.String())),
	)
	defer span.End()
	start := time.Now()

	cadastral, err := s.Resolve(ctx, p.Municipality.String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "municipality lookup failed")
		s.metrics.IncrementFailure(failureReason(err))
		return "", err
	}

	code := fiscalcode.Encode(p.Subject(), cadastral)
	s.metrics.IncrementGenerated()
	s.metrics.ObserveGenerateLatency(time.Since(start))
	return code, nil
}

// Resolve looks up a municipality and translates registry failures into
// domain errors.
func (s *Service) Resolve(ctx context.Context, name string) (fiscalcode.CadastralCode, error) {
	code, err := s.resolver.Resolve(ctx, name)
	if err == nil {
		return code, nil
	}
	switch {
	case municipality.IsNotFound(err):
		return "", dErrors.Wrap(err, dErrors.CodeNotFound, fmt.Sprintf("municipality %q not found", name))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", err
	default:
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "cadastral registry lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"municipality", name,
				"error", err,
			)
		}
		return "", fmt.Errorf("resolve municipality %q: %w", name, err)
	}
}

// BatchResult is the outcome for one person of a batch, at the same index as
// the input.
type BatchResult struct {
	Code fiscalcode.FiscalCode
	Err  error
}

// GenerateBatch generates codes for people concurrently. Per-person failures
// are reported in the result; only cancellation of ctx fails the batch.
func (s *Service) GenerateBatch(ctx context.Context, people []domain.Person) ([]BatchResult, error) {
	s.metrics.ObserveBatchSize(len(people))
	results := make([]BatchResult, len(people))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, p := range people {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			code, err := s.Generate(gctx, p)
			if err != nil && isContextErr(err) {
				return err
			}
			results[i] = BatchResult{Code: code, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("generate batch: %w", err)
	}
	return results, nil
}

func failureReason(err error) string {
	switch {
	case municipality.IsNotFound(err):
		return metrics.ReasonMunicipalityNotFound
	case isContextErr(err):
		return metrics.ReasonCanceled
	default:
		return metrics.ReasonRegistryError
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
