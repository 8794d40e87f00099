// Package http provides the link expansion endpoint
package http

import (
	stdhttp "net/http"

	"followstats/internal/modkit/httpkit"
	usersdomain "followstats/internal/services/api/users/domain"
)

// Register mounts the expand route
func Register(r httpkit.Router, e usersdomain.Expander) {
	h := &handlers{exp: e}
	httpkit.GetParams(r, "/", h.expand)
}

type handlers struct{ exp usersdomain.Expander }

// ExpandParams carries the link to resolve
type ExpandParams struct {
	URL string `query:"url" validate:"required,http_url"`
}

// Expanded is the expansion result
type Expanded struct {
	URL      string `json:"url"`
	Expanded string `json:"expanded"`
}

// swagger:route GET /url Links linksExpand
// @Summary Resolve a shortened link
// @Tags Links
// @Produce json
// @Param url query string true "Link to expand"
// @Success 200 {object} Expanded "ok"
// @Router /url [get]
func (h *handlers) expand(r *stdhttp.Request, p ExpandParams) (int, any, error) {
	out, err := h.exp.Expand(r.Context(), p.URL)
	if err != nil {
		return 0, nil, err
	}
	return stdhttp.StatusOK, Expanded{URL: p.URL, Expanded: out}, nil
}
