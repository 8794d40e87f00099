package httpkit

import (
	"net/http"

	phttp "followstats/internal/platform/net/http"
)

// Get mounts a parameterless JSON handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// GetParams mounts a bound JSON handler under GET
func GetParams[P any](r Router, path string, h func(*http.Request, P) (int, any, error)) {
	phttp.GetParams(r, path, h)
}

// PostParams mounts a bound JSON handler under POST
func PostParams[P any](r Router, path string, h func(*http.Request, P) (int, any, error)) {
	phttp.PostParams(r, path, h)
}
