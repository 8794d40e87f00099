// Package http provides HTTP transport for the summary API
package http

import (
	stdhttp "net/http"

	"followstats/internal/modkit/httpkit"
	"followstats/internal/services/api/summary/domain"
)

// Register mounts the summary endpoint
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.summary)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route GET /summary Summary summaryGet
// @Summary Day over day leaderboard of tracked accounts
// @Tags Summary
// @Produce json
// @Success 200 {object} domain.Summary "ok"
// @Router /summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	return h.svc.Summary(r.Context())
}
