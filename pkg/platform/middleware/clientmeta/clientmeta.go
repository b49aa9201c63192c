// Package clientmeta extracts client metadata from incoming requests so
// redemption audit logs can say which kind of device scanned a code.
package clientmeta

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"brigade/pkg/requestcontext"
)

// ClientMetadata injects the raw User-Agent and a parsed, human-readable
// device label into the request context.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ua := r.UserAgent()
		if ua != "" {
			ctx = requestcontext.WithUserAgent(ctx, ua)
			ctx = requestcontext.WithDeviceLabel(ctx, DeviceLabel(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceLabel condenses a User-Agent string into "Browser on OS" form.
// Unparseable agents fall back to a truncated raw string.
func DeviceLabel(rawUA string) string {
	parsed := useragent.New(rawUA)
	name, _ := parsed.Browser()
	os := parsed.OS()

	switch {
	case name != "" && os != "":
		return fmt.Sprintf("%s on %s", name, os)
	case name != "":
		return name
	case os != "":
		return os
	}

	trimmed := strings.TrimSpace(rawUA)
	if len(trimmed) > 64 {
		trimmed = trimmed[:64]
	}
	return trimmed
}
