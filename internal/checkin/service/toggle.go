package service

import (
	"context"
	"errors"

	"brigade/internal/checkin/models"
	"brigade/internal/sentinel"
	"brigade/pkg/domain"
	dErrors "brigade/pkg/domain-errors"
)

// Toggle flips a credential between active and disabled.
// Redemption is terminal: a redeemed credential cannot be toggled, and a
// toggle racing a redemption loses to whichever conditional update commits
// first. The loser re-reads and reports the terminal state.
func (s *Service) Toggle(ctx context.Context, id domain.CodeID) (*models.CheckinCode, error) {
	ctx, span := s.tracer.Start(ctx, "checkin.Toggle")
	defer span.End()

	if id.IsNil() {
		return nil, errIDRequired()
	}

	for attempt := 0; attempt < maxRedeemAttempts; attempt++ {
		c, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, translateLookupErr(err, "credential not found", "could not load credential")
		}

		if c.Status == models.StatusRedeemed {
			return nil, errAlreadyRedeemed()
		}

		target := models.StatusDisabled
		if c.Status == models.StatusDisabled {
			target = models.StatusActive
		}

		updated, err := s.store.UpdateStatus(ctx, id, c.Version, target, s.now())
		if err == nil {
			s.logAudit(ctx, "checkin_code_toggled",
				"code_id", updated.ID,
				"status", updated.Status,
				"version", updated.Version,
			)
			s.metrics.IncToggled()
			return updated, nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "credential not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not toggle credential")
	}

	return nil, dErrors.New(dErrors.CodeConflict, "credential is contended, retry")
}
