package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/metrics"
	fsnet "followstats/internal/platform/net"

	"github.com/go-chi/httprate"
)

// RateLimitOptions describes one fixed window limiter
type RateLimitOptions struct {
	// Name labels the rejection metric
	Name     string
	Requests int
	Window   time.Duration
	// PerEndpoint keys on client ip and path together instead of ip only
	PerEndpoint bool
}

// RateLimit rejects clients above Requests per Window with a 429 error
// envelope. Requests <= 0 disables the limiter.
func RateLimit(o RateLimitOptions) func(http.Handler) http.Handler {
	if o.Requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if o.Window <= 0 {
		o.Window = time.Minute
	}
	keys := []httprate.KeyFunc{httprate.KeyByIP}
	if o.PerEndpoint {
		keys = append(keys, httprate.KeyByEndpoint)
	}
	return httprate.Limit(
		o.Requests,
		o.Window,
		httprate.WithKeyFuncs(keys...),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimited.WithLabelValues(o.Name).Inc()
			status, env := fsnet.Failure(
				perr.TooManyRequestsf("rate limit exceeded, try again later"),
				fsnet.RequestID(r.Context()),
			)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(env)
		}),
	)
}
