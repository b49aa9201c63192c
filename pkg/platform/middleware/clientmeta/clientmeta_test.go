package clientmeta

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"brigade/pkg/requestcontext"
)

const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestClientMetadataInjectsDeviceLabel(t *testing.T) {
	var gotUA, gotLabel string
	h := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotUA = requestcontext.UserAgent(r.Context())
		gotLabel = requestcontext.DeviceLabel(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/checkin/scan", nil)
	req.Header.Set("User-Agent", iphoneUA)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, iphoneUA, gotUA)
	assert.Contains(t, gotLabel, "Safari")
	assert.Contains(t, gotLabel, " on ")
}

func TestClientMetadataNoUserAgent(t *testing.T) {
	var gotLabel string
	h := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotLabel = requestcontext.DeviceLabel(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/checkin/scan", nil)
	req.Header.Del("User-Agent")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, gotLabel)
}

func TestDeviceLabelFallback(t *testing.T) {
	label := DeviceLabel("ScannerFirmware/2.1")
	assert.NotEmpty(t, label)
	assert.LessOrEqual(t, len(label), 64)
}
