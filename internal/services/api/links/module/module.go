// Package module wires link expansion into HTTP via modkit
package module

import (
	"followstats/internal/modkit"
	"followstats/internal/modkit/httpkit"
	linkshttp "followstats/internal/services/api/links/http"
	usersdomain "followstats/internal/services/api/users/domain"
)

// Module implements the links module
type Module struct {
	b     modkit.Built
	exp   usersdomain.Expander
	limit int
}

// New constructs the links module around the Expander passed with
// modkit.WithPorts
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("links"), modkit.WithPrefix("/url")}, opts...)...)
	exp, ok := b.Ports.(usersdomain.Expander)
	if !ok {
		panic("links: module requires an Expander port")
	}
	return &Module{b: b, exp: exp, limit: deps.Cfg.MayInt("EXPAND_LIMIT", 30)}
}

// MountRoutes mounts the module routes on r behind a per client limit
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		linkshttp.Register(rr.With(httpkit.Limit("expand", m.limit)), m.exp)
	})
}

// Name is the module name
func (m *Module) Name() string { return m.b.Name }

// Ports exposes nothing
func (m *Module) Ports() any { return nil }
