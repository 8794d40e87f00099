// Package module wires the users API into HTTP via modkit
package module

import (
	"time"

	"followstats/internal/modkit"
	"followstats/internal/modkit/httpkit"
	"followstats/internal/modkit/repokit"
	"followstats/internal/services/api/users/domain"
	usershttp "followstats/internal/services/api/users/http"
	"followstats/internal/services/api/users/repo"
	"followstats/internal/services/api/users/service"
)

// Ports exposes the service, the sample reader and the link expander for
// other modules
type Ports struct {
	Service  domain.ServicePort
	Samples  domain.SampleReader
	Expander domain.Expander
}

// Module implements the users module
type Module struct {
	b     modkit.Built
	svc   *service.Svc
	ports Ports
	add   int
}

// New constructs the users module. Samples live in ClickHouse when the
// backend is "ch" and a CH handle is present, Postgres otherwise.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("users"), modkit.WithPrefix("/users")}, opts...)...)

	binder := Binder(deps)
	memo := deps.Memo()
	expander := service.NewExpander(nil, memo)
	svc := service.New(deps.PG, binder, service.Options{
		Cache:            memo,
		Source:           sourceFrom(b.Ports),
		Expander:         expander,
		Loc:              deps.Location(),
		Now:              deps.Clock(),
		StatementTimeout: deps.Cfg.MayDuration("ADD_USER_STATEMENT_TIMEOUT", 5*time.Second),
	})

	return &Module{
		b:     b,
		svc:   svc,
		ports: Ports{Service: svc, Samples: newSampleReader(deps.PG, binder), Expander: expander},
		add:   deps.Cfg.MayInt("ADD_USER_LIMIT", 10),
	}
}

// Binder picks the repo binder for the configured samples backend
func Binder(deps modkit.Deps) repokit.Binder[repo.Repo] {
	if deps.CH != nil && deps.Cfg.MayEnum("SAMPLES_BACKEND", "pg", "pg", "ch") == "ch" {
		return repo.NewHybrid(deps.CH)
	}
	return repo.NewPG()
}

// sourceFrom accepts a ProfileSource handed in through WithPorts
func sourceFrom(p any) domain.ProfileSource {
	src, _ := p.(domain.ProfileSource)
	return src
}

// MountRoutes mounts the module routes on r
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		usershttp.Register(rr, m.svc, httpkit.Limit("add_user", m.add))
	})
}

// Name is the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
