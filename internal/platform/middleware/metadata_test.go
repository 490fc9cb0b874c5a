package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractIP(t *testing.T, m *Metadata, remoteAddr string, headers map[string]string) string {
	t.Helper()
	var got string
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetClientIP(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestMetadataUsesRemoteAddr(t *testing.T) {
	m := NewMetadata(nil)
	assert.Equal(t, "203.0.113.7", extractIP(t, m, "203.0.113.7:54321", nil))
}

func TestMetadataIgnoresXFFFromUntrustedProxy(t *testing.T) {
	m := NewMetadata(nil)
	got := extractIP(t, m, "203.0.113.7:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1",
	})
	assert.Equal(t, "203.0.113.7", got)
}

func TestMetadataTrustsXFFFromTrustedProxy(t *testing.T) {
	prefix := netip.MustParsePrefix("10.0.0.0/8")
	m := NewMetadata([]netip.Prefix{prefix})
	got := extractIP(t, m, "10.1.2.3:1234", map[string]string{
		"X-Forwarded-For": "198.51.100.1, 10.1.2.3",
	})
	assert.Equal(t, "198.51.100.1", got)
}

func TestMetadataRejectsOversizedXFF(t *testing.T) {
	prefix := netip.MustParsePrefix("10.0.0.0/8")
	m := NewMetadata([]netip.Prefix{prefix})
	got := extractIP(t, m, "10.1.2.3:1234", map[string]string{
		"X-Forwarded-For": strings.Repeat("1", MaxXFFHeaderLength+1),
	})
	assert.Equal(t, "10.1.2.3", got)
}

func TestMetadataRejectsGarbageXFF(t *testing.T) {
	prefix := netip.MustParsePrefix("10.0.0.0/8")
	m := NewMetadata([]netip.Prefix{prefix})
	got := extractIP(t, m, "10.1.2.3:1234", map[string]string{
		"X-Forwarded-For": "not-an-ip",
	})
	assert.Equal(t, "10.1.2.3", got)
}

func TestGetClientIPDefaultsToUnknown(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "unknown", GetClientIP(req.Context()))
}
