// Package api provides the HTTP API for the application
package api

import (
	"time"

	"followstats/internal/platform/cache"
	"followstats/internal/platform/config"
	"followstats/internal/platform/logger"
	"followstats/internal/platform/metrics"
	phttp "followstats/internal/platform/net/http"
	"followstats/internal/platform/store"

	"followstats/internal/modkit"
	"followstats/internal/modkit/httpkit"
	"followstats/internal/modkit/module"
	"followstats/internal/modkit/swaggerkit"

	linksmod "followstats/internal/services/api/links/module"
	metamod "followstats/internal/services/api/meta/module"
	summarymod "followstats/internal/services/api/summary/module"
	usersdomain "followstats/internal/services/api/users/domain"
	usersmod "followstats/internal/services/api/users/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Logger *logger.Logger

	// Cache carries the process wide TTL and singleflight policy. When nil a
	// default Memo over Store.KV is used.
	Cache *cache.Memo
	// Loc is the reference location for hour and day boundaries
	Loc *time.Location
	Now func() time.Time

	// Source backs POST /users/{username}; nil answers 503
	Source usersdomain.ProfileSource

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router and returns the
// mounted modules
func Mount(r phttp.Router, opt Options) []module.Module {
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		CH:    opt.Store.CH,
		KV:    opt.Store.KV,
		Cache: opt.Cache,
		Loc:   opt.Loc,
		Now:   opt.Now,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	var userOpts []modkit.Option
	if opt.Source != nil {
		userOpts = append(userOpts, modkit.WithPorts(opt.Source))
	}
	users := usersmod.New(deps, userOpts...)
	up := module.MustPortsOf[usersmod.Ports](users)

	mods := []module.Module{
		metamod.New(deps),
		users,
		summarymod.New(deps, modkit.WithPorts(up.Samples)),
		linksmod.New(deps, modkit.WithPorts(up.Expander)),
	}

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	r.Handle("/metrics", metrics.Handler())

	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackFromConfig(opt.Config)), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return mods
}
