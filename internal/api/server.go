package api

import (
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/CedarQuran/core/corpus"
	"github.com/FocuswithJustin/CedarQuran/internal/logging"
)

// Start starts the API server over the given analyzer and blocks.
func Start(cfg Config, analyzer *corpus.Analyzer) error {
	if err := cfg.Auth.Validate(); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	server := NewServer(analyzer)
	server.security = cfg.Security.withDefaults()
	go server.hub.Run()

	var handler http.Handler = server.Routes()

	if cfg.Auth.Enabled {
		handler = AuthMiddleware(cfg.Auth, handler)
		logging.SecurityEvent("authentication_configured", "api",
			"enabled", true,
			"note", "API key required")
	} else {
		logging.SecurityEvent("authentication_configured", "api",
			"enabled", false,
			"note", "all requests allowed")
	}

	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter := NewRateLimiter(cfg.RateLimit)
		handler = limiter.Middleware(handler)
		logging.Info("rate limiting enabled",
			"requests_per_minute", limiter.config.RequestsPerMinute,
			"burst_size", limiter.config.BurstSize)
	}

	handler = logging.CombinedMiddleware(handler)

	logging.ServerStartup("rest_api", "http", cfg.Port,
		"script", string(analyzer.Corpus().Script()),
		"chapters", len(analyzer.Corpus().Chapters()))

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	return http.ListenAndServe(addr, handler)
}
