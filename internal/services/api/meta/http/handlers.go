// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"time"

	"followstats/internal/core/version"
	"followstats/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by backends that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Backend is one dependency the readiness check reports on. A nil Conn is
// reported as skipped; a Conn without Ping as unknown.
type Backend struct {
	Name string
	Conn any
	// Critical backends fail the check, the rest only degrade it
	Critical bool
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Backends    []Backend
	Now         func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"followstats-api"`
	Now     string `json:"now"      example:"2024-05-10T13:05:00Z"`
}

// ReadyCheck is the outcome for one backend
type ReadyCheck struct {
	Name     string `json:"name"     example:"pg"`
	Status   string `json:"status"   example:"ok"` // ok fail skipped unknown
	Critical bool   `json:"critical" example:"true"`
	Millis   int64  `json:"ms"       example:"3"`
	Error    string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2024-05-10T13:05:00Z"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"    example:"followstats-api"`
	Version string `json:"version" example:"v0.1.0"`
	Started string `json:"started" example:"2024-05-10T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness check pinging every backend
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make([]ReadyCheck, len(h.deps.Backends))
	var g errgroup.Group
	for i, b := range h.deps.Backends {
		g.Go(func() error {
			checks[i] = h.check(ctx, b)
			return nil
		})
	}
	_ = g.Wait()

	return ReadyResponse{
		Status: overall(checks),
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) check(ctx context.Context, b Backend) ReadyCheck {
	out := ReadyCheck{Name: b.Name, Critical: b.Critical}
	p, ok := b.Conn.(Pinger)
	switch {
	case b.Conn == nil:
		out.Status = "skipped"
	case !ok:
		out.Status = "unknown"
	default:
		start := h.deps.Now()
		err := p.Ping(ctx)
		out.Millis = h.deps.Now().Sub(start).Milliseconds()
		out.Status = "ok"
		if err != nil {
			out.Status, out.Error = "fail", err.Error()
		}
	}
	return out
}

// overall is fail when a critical backend failed, degraded when any other did
func overall(checks []ReadyCheck) string {
	status := "ok"
	for _, c := range checks {
		if c.Status != "fail" {
			continue
		}
		if c.Critical {
			return "fail"
		}
		status = "degraded"
	}
	return status
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service name, version and uptime in seconds
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Version: version.Info().Version,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
