package httpkit

import (
	"net/http"
	"time"

	"followstats/internal/platform/config"
	"followstats/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Timeout time.Duration
	// Origins allowed by CORS, all when empty
	Origins []string
	// RateLimit is requests per minute per client and path, 0 disables
	RateLimit int
}

// StackFromConfig reads CORE_API_TIMEOUT, CORE_API_CORS_ORIGINS and
// CORE_API_RATE_LIMIT style keys from cfg
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		Timeout:   cfg.MayDuration("TIMEOUT", 30*time.Second),
		Origins:   cfg.MayCSV("CORS_ORIGINS", nil),
		RateLimit: cfg.MayInt("RATE_LIMIT", 100),
	}
}

// CommonStack is the baseline chain for the versioned API
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	stack := middleware.Defaults(o.Timeout)
	stack = append(stack,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.RateLimit(middleware.RateLimitOptions{
			Name:        "global",
			Requests:    o.RateLimit,
			Window:      time.Minute,
			PerEndpoint: true,
		}),
	)
	return stack
}

// Limit is a per client limiter for a single route group
func Limit(name string, perMinute int) func(http.Handler) http.Handler {
	return middleware.RateLimit(middleware.RateLimitOptions{Name: name, Requests: perMinute, Window: time.Minute})
}
