package admin

import (
	"log/slog"
	"net/http"

	dErrors "brigade/pkg/domain-errors"
	"brigade/pkg/platform/httputil"
	request "brigade/pkg/platform/middleware/request"
	"brigade/pkg/secrets"
)

// RequireAdminToken guards administrative routes with a shared staff token.
// The configured value is a bcrypt hash so the plaintext token never sits in
// the environment of a running process.
func RequireAdminToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if token == "" || secrets.Verify(token, tokenHash) != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
