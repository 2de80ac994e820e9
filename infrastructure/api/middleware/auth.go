package middleware

import "net/http"

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	apiKeys map[string]struct{}
	enabled bool
}

// NewAuthConfig creates an AuthConfig from a list of API keys. Empty key
// lists disable authentication entirely.
func NewAuthConfig(apiKeys []string) AuthConfig {
	keys := make(map[string]struct{}, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys[k] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return AuthConfig{enabled: false}
	}
	return AuthConfig{
		apiKeys: keys,
		enabled: true,
	}
}

// Enabled returns true if authentication is enabled.
func (c AuthConfig) Enabled() bool { return c.enabled }

// Valid reports whether the given key is an accepted API key.
func (c AuthConfig) Valid(key string) bool {
	if !c.enabled {
		return true
	}
	_, ok := c.apiKeys[key]
	return ok
}

// APIKey returns a middleware that requires X-API-KEY header authentication.
// If the config has no API keys set, the middleware passes all requests
// through.
func APIKey(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.enabled {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := r.Header.Get("X-API-KEY")
			if apiKey == "" {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "X-API-KEY header is required"})
				return
			}
			if !config.Valid(apiKey) {
				WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid API key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// mutatingMethods are the HTTP methods gated by write protection.
var mutatingMethods = map[string]struct{}{
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// WriteProtectAuth returns a middleware that requires a valid X-API-KEY for
// mutating methods only. GET and HEAD requests pass through unauthenticated.
func WriteProtectAuth(apiKeys []string) func(http.Handler) http.Handler {
	config := NewAuthConfig(apiKeys)
	gate := APIKey(config)

	return func(next http.Handler) http.Handler {
		protected := gate(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := mutatingMethods[r.Method]; ok {
				protected.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
