// Package http is the transport layer: router facade, server, and JSON
// response helpers around the shared envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	"followstats/internal/platform/logger"
	fsnet "followstats/internal/platform/net"
)

// Envelope is the body of every JSON response
type Envelope = fsnet.Envelope

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Named("http").Debug().Err(err).Msg("response write failed")
	}
}

// RespondError writes err as an error envelope
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := fsnet.Failure(err, fsnet.RequestID(r.Context()))
	JSON(w, status, env)
}

// Response is what return style handlers produce. A non nil Err wins over
// Status and Body.
type Response struct {
	Status int
	Body   any
	Err    error
	Header stdhttp.Header
}

// Handle adapts a Response returning function to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if resp.Err != nil {
		RespondError(w, r, resp.Err)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	JSON(w, status, fsnet.Success(status, resp.Body, fsnet.RequestID(r.Context())))
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created is a 201 with data
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// Status is an arbitrary success status with data
func Status(code int, data any) Response { return Response{Status: code, Body: data} }

// NoContent is a 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error maps err onto its status and envelope
func Error(err error) Response { return Response{Err: err} }
