// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"followstats/internal/core/version"
	"followstats/internal/modkit"
	"followstats/internal/modkit/httpkit"
	metahttp "followstats/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	now := deps.Clock()
	hd := metahttp.Deps{
		ServiceName: version.Service,
		StartedAt:   now(),
		Now:         now,
		Backends: []metahttp.Backend{
			backend("pg", deps.PG != nil, deps.PG, true),
			backend("ch", deps.CH != nil, deps.CH, false),
			backend("kv", deps.KV != nil, deps.KV, false),
		},
	}
	return &Module{b: b, deps: hd}
}

// backend drops typed nils, which would otherwise read as present
func backend(name string, present bool, conn any, critical bool) metahttp.Backend {
	if !present {
		conn = nil
	}
	return metahttp.Backend{Name: name, Conn: conn, Critical: critical}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
