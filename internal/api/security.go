package api

import (
	"net/http"
	"strings"
)

// SecurityConfig holds WebSocket security settings: which origins may
// connect and how much a connected client may send.
type SecurityConfig struct {
	// AllowedOrigins lists allowed Origin values. "*" allows any
	// origin; "*.example.com" allows any subdomain of example.com.
	AllowedOrigins []string

	// MaxMessageRate is the maximum inbound messages per second per
	// client. A client exceeding it is disconnected.
	MaxMessageRate int

	// MaxMessageSize is the maximum inbound message size in bytes.
	MaxMessageSize int64
}

// DefaultSecurityConfig returns the default settings: any origin,
// 10 messages per second, 4KB messages.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		AllowedOrigins: []string{"*"},
		MaxMessageRate: 10,
		MaxMessageSize: 4096,
	}
}

// withDefaults fills unset fields from DefaultSecurityConfig, so a
// zero Config means the defaults rather than "deny everything".
func (c SecurityConfig) withDefaults() SecurityConfig {
	def := DefaultSecurityConfig()
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = def.AllowedOrigins
	}
	if c.MaxMessageRate == 0 {
		c.MaxMessageRate = def.MaxMessageRate
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	return c
}

// checkOrigin is the upgrader's origin check. A request without an
// Origin header is not cross-origin (non-browser client) and passes;
// anything else must match the allow list.
func (c SecurityConfig) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return isOriginAllowed(origin, c.AllowedOrigins)
}

// isOriginAllowed matches origin against the allow list: "*" matches
// anything, "*.domain" matches subdomains, otherwise exact match.
func isOriginAllowed(origin string, allowed []string) bool {
	for _, pattern := range allowed {
		if pattern == "*" || pattern == origin {
			return true
		}
		if strings.HasPrefix(pattern, "*.") && strings.HasSuffix(origin, pattern[1:]) {
			return true
		}
	}
	return false
}

// newInboundLimiter returns the per-client message rate bucket. The
// capacity allows a burst of twice the steady rate.
func (c SecurityConfig) newInboundLimiter() *tokenBucket {
	rate := float64(c.MaxMessageRate)
	return newTokenBucket(rate*2, rate)
}
