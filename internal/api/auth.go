package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/CedarQuran/internal/logging"
)

// AuthConfig holds API-key authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKey  string
}

// Validate checks the authentication configuration.
func (c AuthConfig) Validate() error {
	if c.Enabled && c.APIKey == "" {
		return fmt.Errorf("API key is required when authentication is enabled")
	}
	if c.Enabled && len(c.APIKey) < 16 {
		return fmt.Errorf("API key must be at least 16 characters (got %d)", len(c.APIKey))
	}
	return nil
}

// AuthMiddleware checks for API-key authentication when enabled.
// Requests must carry the correct key in the X-API-Key header; the
// health endpoint always bypasses authentication. When auth is
// disabled all requests pass through.
func AuthMiddleware(cfg AuthConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r.URL.Path) || !cfg.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("X-API-Key")
		if key == "" {
			logging.SecurityEvent("unauthorized_request", "auth",
				"path", r.URL.Path,
				"reason", "missing API key")
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing X-API-Key header")
			return
		}

		// Constant-time comparison so key checks leak no timing signal.
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
			logging.SecurityEvent("unauthorized_request", "auth",
				"path", r.URL.Path,
				"reason", "invalid API key")
			respondError(w, http.StatusUnauthorized, "unauthorized", "invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isPublicEndpoint reports whether the path is always accessible
// without authentication.
func isPublicEndpoint(path string) bool {
	return path == "/api/v1/health"
}
