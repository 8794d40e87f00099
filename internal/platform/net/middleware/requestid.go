package middleware

import (
	"net/http"
	"regexp"

	fsnet "followstats/internal/platform/net"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request id in and out
const HeaderRequestID = "X-Request-ID"

// inbound ids are trusted only when short and printable
var reqIDRe = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,64}$`)

// RequestID propagates a well formed X-Request-ID or mints a uuid, stores it
// where chi's GetReqID finds it and echoes it on the response
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if !reqIDRe.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(fsnet.WithRequest(r.Context(), id)))
		})
	}
}
