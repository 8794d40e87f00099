package http

import "net/http"

// GetJSON mounts a parameterless JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandler(h))
}

// GetParams mounts a bound JSON handler for GET
func GetParams[P any](r Router, path string, h func(*http.Request, P) (int, any, error)) {
	r.Get(path, ParamsHandler(h))
}

// PostParams mounts a bound JSON handler for POST. The request body is ignored.
func PostParams[P any](r Router, path string, h func(*http.Request, P) (int, any, error)) {
	r.Post(path, ParamsHandler(h))
}
