package http

import (
	"net/http"

	"followstats/internal/platform/net/http/bind"
)

// ParamsHandler binds and validates P from the path and query, then calls fn.
// fn picks the success status so inserts can answer 201 and updates 200.
func ParamsHandler[P any](fn func(*http.Request, P) (int, any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		p, err := bind.Params[P](r)
		if err != nil {
			return Error(err)
		}
		status, out, err := fn(r, p)
		if err != nil {
			return Error(err)
		}
		return Status(status, out)
	})
}

// JSONHandler calls fn and wraps its result in a 200 envelope
func JSONHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}
