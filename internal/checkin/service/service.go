// Package service orchestrates issuance, redemption, and administrative
// toggling of check-in credentials.
//
// The service holds no credential state of its own: the store is the single
// source of truth and its conditional update is the only mutation primitive.
// That keeps the at-most-one-redemption guarantee intact when several server
// instances share one database.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	checkinmetrics "brigade/internal/checkin/metrics"
	"brigade/internal/checkin/models"
	"brigade/pkg/domain"
	"brigade/pkg/secrets"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

// Store is the credential persistence contract the service depends on.
// Implementations must make UpdateStatus a compare-and-swap: the write
// commits only when the stored version equals expectedVersion.
type Store interface {
	Insert(ctx context.Context, c *models.CheckinCode) error
	FindByCode(ctx context.Context, code string) (*models.CheckinCode, error)
	FindByID(ctx context.Context, id domain.CodeID) (*models.CheckinCode, error)
	UpdateStatus(ctx context.Context, id domain.CodeID, expectedVersion int64, status models.Status, now time.Time) (*models.CheckinCode, error)
	List(ctx context.Context, location string, limit int) ([]*models.CheckinCode, error)
}

const (
	// maxIssueAttempts bounds code regeneration after duplicate-code
	// collisions. With 256-bit codes a second collision means the RNG is
	// broken, not unlucky.
	maxIssueAttempts = 3

	// maxRedeemAttempts bounds the re-read loop after lost compare-and-swap
	// races. A lost race normally resolves to a terminal answer on the next
	// read; repeated conflicts require a concurrent toggle storm.
	maxRedeemAttempts = 8

	defaultListLimit = 50
	maxListLimit     = 500
)

// Service implements the credential lifecycle operations.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *checkinmetrics.Metrics
	tracer  trace.Tracer

	now     func() time.Time
	genCode func() (string, error)
}

// Option configures a Service.
type Option func(*Service)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *checkinmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCodeGenerator overrides the scan-code generator, for tests.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Service) {
		if gen != nil {
			s.genCode = gen
		}
	}
}

// New constructs a Service backed by the given store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  slog.Default(),
		tracer:  otel.Tracer("brigade/internal/checkin"),
		now:     time.Now,
		genCode: secrets.Generate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get fetches a credential by record ID.
func (s *Service) Get(ctx context.Context, id domain.CodeID) (*models.CheckinCode, error) {
	if id.IsNil() {
		return nil, errIDRequired()
	}
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupErr(err, "credential not found", "failed to load credential")
	}
	return c, nil
}

// List returns recent credentials, optionally restricted to a location tag.
func (s *Service) List(ctx context.Context, location string, limit int) ([]*models.CheckinCode, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	out, err := s.store.List(ctx, location, limit)
	if err != nil {
		return nil, translateStoreErr(err, "failed to list credentials")
	}
	return out, nil
}
