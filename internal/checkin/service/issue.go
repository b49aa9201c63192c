package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"brigade/internal/checkin/expiry"
	"brigade/internal/checkin/models"
	"brigade/internal/sentinel"
	"brigade/pkg/domain"
	dErrors "brigade/pkg/domain-errors"
)

// Issue creates a new active credential expiring at validUntil.
// The expiry must be strictly in the future at issuance time. The scan code
// carries 256 bits of entropy; a duplicate-code collision triggers bounded
// regeneration rather than failing the request outright.
func (s *Service) Issue(ctx context.Context, validUntil time.Time, location string) (*models.CheckinCode, error) {
	ctx, span := s.tracer.Start(ctx, "checkin.Issue")
	defer span.End()

	now := s.now()
	if err := expiry.Validate(validUntil, now); err != nil {
		return nil, err
	}
	location = strings.TrimSpace(location)

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := s.genCode()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate check-in code")
		}

		c := models.New(domain.NewCodeID(), code, validUntil, location, now)
		err = s.store.Insert(ctx, c)
		if err == nil {
			span.SetAttributes(attribute.String("checkin.code_id", c.ID.String()))
			s.logAudit(ctx, "checkin_code_issued",
				"code_id", c.ID,
				"valid_until", c.ValidUntil,
				"location", c.Location,
			)
			s.metrics.IncIssued()
			return c, nil
		}
		if errors.Is(err, sentinel.ErrConflict) {
			s.logger.WarnContext(ctx, "check-in code collision, regenerating",
				"attempt", attempt+1)
			continue
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist credential")
	}

	return nil, dErrors.New(dErrors.CodeInternal, "could not generate a unique check-in code")
}
