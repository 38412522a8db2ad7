package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const testAPIKey = "0123456789abcdef0123456789abcdef"

func authedHandler(cfg AuthConfig) http.Handler {
	return AuthMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMiddleware_MissingKey(t *testing.T) {
	handler := authedHandler(AuthConfig{Enabled: true, APIKey: testAPIKey})

	req := httptest.NewRequest("GET", "/api/v1/chapters", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_InvalidKey(t *testing.T) {
	handler := authedHandler(AuthConfig{Enabled: true, APIKey: testAPIKey})

	req := httptest.NewRequest("GET", "/api/v1/chapters", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddleware_ValidKey(t *testing.T) {
	handler := authedHandler(AuthConfig{Enabled: true, APIKey: testAPIKey})

	req := httptest.NewRequest("GET", "/api/v1/chapters", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	handler := authedHandler(AuthConfig{})

	req := httptest.NewRequest("GET", "/api/v1/chapters", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthMiddleware_HealthBypass(t *testing.T) {
	handler := authedHandler(AuthConfig{Enabled: true, APIKey: testAPIKey})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("health endpoint should bypass auth: status = %d", rec.Code)
	}
}

func TestAuthConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"disabled", AuthConfig{}, false},
		{"enabled without key", AuthConfig{Enabled: true}, true},
		{"enabled with short key", AuthConfig{Enabled: true, APIKey: "short"}, true},
		{"enabled with long key", AuthConfig{Enabled: true, APIKey: testAPIKey}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
