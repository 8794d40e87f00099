// Package httpkit re-exports the platform http surface for modules so they
// do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "followstats/internal/platform/net/http"
)

type (
	// Envelope is the transport envelope type
	Envelope = phttp.Envelope

	// Response is the return style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// Status returns a success response with an explicit code
func Status(code int, data any) Response { return phttp.Status(code, data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a parameterless handler, wrapping its result in a 200
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.JSONHandler(fn) }

// Params adapts a handler taking bound path and query parameters
func Params[P any](fn func(*http.Request, P) (int, any, error)) Handler {
	return phttp.ParamsHandler(fn)
}
