package httpkit

import (
	"net/http"

	pstrings "followstats/internal/platform/strings"
)

// MountUnder mounts a subrouter at prefix with mw applied to it only
func MountUnder(r Router, prefix string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route(pstrings.MustPrefix(prefix), func(sub Router) {
		if len(mw) > 0 {
			sub.Use(mw...)
		}
		mount(sub)
	})
}
