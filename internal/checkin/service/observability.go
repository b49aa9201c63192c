package service

import (
	"context"

	request "brigade/pkg/platform/middleware/request"
	"brigade/pkg/requestcontext"
)

// logAudit records a credential state change with request correlation fields.
// Every transition that commits goes through here so the attendance history
// stays reconstructable from logs alone.
func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := request.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	if device := requestcontext.DeviceLabel(ctx); device != "" {
		attributes = append(attributes, "device", device)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
}
