package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brigade/internal/checkin/metrics"
)

// CredentialStore exposes cleanup for check-in codes whose validity has ended.
type CredentialStore interface {
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// CleanupResult summarizes the deletions performed by a cleanup run.
type CleanupResult struct {
	DeletedCodes int
}

// CleanupService periodically removes check-in codes that expired longer ago
// than the retention window. Recently expired codes are kept so scanners still
// get an "expired" answer instead of "not found" right after the deadline.
type CleanupService struct {
	store     CredentialStore
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// CleanupOption configures CleanupService.
type CleanupOption func(*CleanupService)

// WithCleanupInterval overrides the cleanup interval when greater than zero.
func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithCleanupRetention overrides how long expired codes are retained before
// deletion, when greater than zero.
func WithCleanupRetention(retention time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if retention > 0 {
			s.retention = retention
		}
	}
}

// WithCleanupLogger overrides the logger used for cleanup errors.
func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCleanupMetrics attaches deletion counters.
func WithCleanupMetrics(m *metrics.Metrics) CleanupOption {
	return func(s *CleanupService) {
		s.metrics = m
	}
}

// WithCleanupClock overrides the time source, for tests.
func WithCleanupClock(now func() time.Time) CleanupOption {
	return func(s *CleanupService) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a CleanupService with the required store and options applied.
func New(store CredentialStore, opts ...CleanupOption) (*CleanupService, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	svc := &CleanupService{
		store:     store,
		interval:  5 * time.Minute,
		retention: 24 * time.Hour,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// Start runs cleanup periodically until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.ErrorContext(ctx, "checkin cleanup failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// RunOnce performs a single cleanup pass, deleting codes whose valid_until
// lies before now minus the retention window.
func (s *CleanupService) RunOnce(ctx context.Context) (CleanupResult, error) {
	cutoff := s.now().Add(-s.retention)

	deleted, err := s.store.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return CleanupResult{}, fmt.Errorf("delete expired check-in codes: %w", err)
	}
	if deleted > 0 {
		s.metrics.AddCleanupDeleted(deleted)
		s.logger.InfoContext(ctx, "expired check-in codes removed",
			"deleted", deleted,
			"cutoff", cutoff,
		)
	}
	return CleanupResult{DeletedCodes: deleted}, nil
}
