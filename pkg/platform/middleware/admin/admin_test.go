package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brigade/pkg/secrets"
)

func newGuardedHandler(t *testing.T, token string) http.Handler {
	t.Helper()
	hash, err := secrets.Hash(token)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return RequireAdminToken(hash, logger)(ok)
}

func TestRequireAdminTokenAccepts(t *testing.T) {
	h := newGuardedHandler(t, "kitchen-pass")

	req := httptest.NewRequest(http.MethodPost, "/admin/checkin/codes", nil)
	req.Header.Set("X-Admin-Token", "kitchen-pass")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdminTokenRejectsWrongToken(t *testing.T) {
	h := newGuardedHandler(t, "kitchen-pass")

	req := httptest.NewRequest(http.MethodPost, "/admin/checkin/codes", nil)
	req.Header.Set("X-Admin-Token", "front-of-house")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminTokenRejectsMissingToken(t *testing.T) {
	h := newGuardedHandler(t, "kitchen-pass")

	req := httptest.NewRequest(http.MethodPost, "/admin/checkin/codes", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
