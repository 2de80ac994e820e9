package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func authProbe(t *testing.T, handler http.Handler, method, key string) int {
	t.Helper()

	req := httptest.NewRequest(method, "/api/v1/photos/p-1", nil)
	if key != "" {
		req.Header.Set("X-API-KEY", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKey(t *testing.T) {
	handler := APIKey(NewAuthConfig([]string{"key-1", "key-2"}))(okHandler())

	assert.Equal(t, http.StatusUnauthorized, authProbe(t, handler, http.MethodGet, ""))
	assert.Equal(t, http.StatusUnauthorized, authProbe(t, handler, http.MethodGet, "wrong"))
	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodGet, "key-1"))
	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodGet, "key-2"))
}

func TestAPIKey_DisabledWithoutKeys(t *testing.T) {
	handler := APIKey(NewAuthConfig(nil))(okHandler())

	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodGet, ""))
}

func TestWriteProtectAuth(t *testing.T) {
	handler := WriteProtectAuth([]string{"secret"})(okHandler())

	// Reads pass through without a key.
	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodGet, ""))
	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodHead, ""))

	// Writes require a valid key.
	assert.Equal(t, http.StatusUnauthorized, authProbe(t, handler, http.MethodPatch, ""))
	assert.Equal(t, http.StatusUnauthorized, authProbe(t, handler, http.MethodPost, "wrong"))
	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodPatch, "secret"))
	assert.Equal(t, http.StatusOK, authProbe(t, handler, http.MethodDelete, "secret"))
}

func TestAuthConfig_BlankKeysIgnored(t *testing.T) {
	config := NewAuthConfig([]string{"", ""})
	assert.False(t, config.Enabled())
	assert.True(t, config.Valid("anything"))
}
