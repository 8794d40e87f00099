// Package module wires the summary API into HTTP via modkit
package module

import (
	"followstats/internal/modkit"
	"followstats/internal/modkit/httpkit"
	"followstats/internal/platform/logger"
	"followstats/internal/services/api/summary/domain"
	summaryhttp "followstats/internal/services/api/summary/http"
	"followstats/internal/services/api/summary/service"
	usersdomain "followstats/internal/services/api/users/domain"

	"golang.org/x/text/language"
)

// Ports exposes the service port
type Ports struct {
	Service domain.ServicePort
}

// Module implements the summary module
type Module struct {
	b     modkit.Built
	svc   *service.Svc
	ports Ports
}

// New constructs the summary module. The users SampleReader must be passed
// with modkit.WithPorts.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("summary"), modkit.WithPrefix("/summary")}, opts...)...)

	reader, ok := b.Ports.(usersdomain.SampleReader)
	if !ok {
		panic("summary: module requires a users SampleReader port")
	}

	svc := service.New(reader, service.Options{
		Cache:   deps.Memo(),
		Loc:     deps.Location(),
		Now:     deps.Clock(),
		Fanout:  deps.Cfg.MayInt("SUMMARY_FANOUT", service.DefaultFanout),
		Samples: deps.Cfg.MayInt("SUMMARY_SAMPLES", service.DefaultSamples),
		Lang:    lang(deps.Cfg.MayString("LOCALE", "en")),
	})
	return &Module{b: b, svc: svc, ports: Ports{Service: svc}}
}

func lang(s string) language.Tag {
	t, err := language.Parse(s)
	if err != nil {
		logger.Named("summary").Warn().Err(err).Str("locale", s).Msg("unknown locale, using en")
		return language.English
	}
	return t
}

// MountRoutes mounts the module routes on r
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { summaryhttp.Register(rr, m.svc) })
}

// Name is the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
