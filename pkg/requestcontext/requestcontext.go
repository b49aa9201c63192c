// Package requestcontext carries per-request metadata through context without
// creating import cycles between middleware and handlers.
package requestcontext

import "context"

type contextKey int

const (
	keyRequestID contextKey = iota
	keyUserAgent
	keyDeviceLabel
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestID returns the request ID, or "" if none was set.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

// WithUserAgent stores the raw User-Agent header in the context.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, keyUserAgent, ua)
}

// UserAgent returns the raw User-Agent header, or "" if none was set.
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(keyUserAgent).(string)
	return v
}

// WithDeviceLabel stores a human-readable device description in the context.
func WithDeviceLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, keyDeviceLabel, label)
}

// DeviceLabel returns the parsed device description, or "" if none was set.
func DeviceLabel(ctx context.Context) string {
	v, _ := ctx.Value(keyDeviceLabel).(string)
	return v
}
