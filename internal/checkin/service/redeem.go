package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"brigade/internal/checkin/expiry"
	"brigade/internal/checkin/models"
	"brigade/internal/sentinel"
	dErrors "brigade/pkg/domain-errors"
)

// Redeem consumes a credential by its scanned code. At most one call ever
// succeeds per credential.
//
// The algorithm reads the current record, evaluates the business rules
// against it, and commits the active->redeemed transition with a conditional
// update on the version read. Losing the race means another caller changed
// the record in between; the loop re-reads fresh truth and re-evaluates, which
// normally resolves to AlreadyRedeemed. Business-rule failures are never
// retried, only lost compare-and-swap races are.
func (s *Service) Redeem(ctx context.Context, code string) (*models.CheckinCode, error) {
	ctx, span := s.tracer.Start(ctx, "checkin.Redeem")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "check-in code required")
	}

	start := s.now()
	defer s.metrics.ObserveRedeem(start)

	for attempt := 0; attempt < maxRedeemAttempts; attempt++ {
		c, err := s.store.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				s.metrics.IncRedeemRejected("not_found")
				return nil, errUnknownCode()
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not load credential")
		}

		now := s.now()
		switch {
		case c.Status == models.StatusDisabled:
			s.metrics.IncRedeemRejected("disabled")
			return nil, errDisabled()
		case expiry.IsExpired(c.ValidUntil, now):
			// Expiry is derived from the clock, not stored state, so it is
			// checked even when the record still says active.
			s.metrics.IncRedeemRejected("expired")
			return nil, errExpired()
		case c.Status == models.StatusRedeemed:
			s.metrics.IncRedeemRejected("already_redeemed")
			return nil, errAlreadyRedeemed()
		}

		updated, err := s.store.UpdateStatus(ctx, c.ID, c.Version, models.StatusRedeemed, now)
		if err == nil {
			span.SetAttributes(
				attribute.String("checkin.code_id", updated.ID.String()),
				attribute.Int64("checkin.version", updated.Version),
			)
			s.logAudit(ctx, "checkin_code_redeemed",
				"code_id", updated.ID,
				"location", updated.Location,
				"version", updated.Version,
			)
			s.metrics.IncRedeemed()
			return updated, nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost the race; re-read and re-evaluate from fresh state.
			s.metrics.IncRedeemConflict()
			continue
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncRedeemRejected("not_found")
			return nil, errUnknownCode()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not redeem credential")
	}

	return nil, dErrors.New(dErrors.CodeConflict, "credential is contended, retry")
}
