package api

// Config holds server configuration.
type Config struct {
	Port      int               // TCP port to listen on
	Host      string            // Bind address (empty = all interfaces)
	Auth      AuthConfig        // API-key authentication
	RateLimit RateLimiterConfig // Per-client request limits (0 disables)
	Security  SecurityConfig    // WebSocket origin and message limits
}
