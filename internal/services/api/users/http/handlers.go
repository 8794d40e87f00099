// Package http provides HTTP transport for the users API
package http

import (
	stdhttp "net/http"

	"followstats/internal/core/stats"
	"followstats/internal/modkit/httpkit"
	"followstats/internal/platform/logger"
	"followstats/internal/services/api/users/domain"
)

// Register mounts users endpoints. add wraps the write route, e.g. with a
// tighter rate limit; nil leaves it bare.
func Register(r httpkit.Router, s domain.ServicePort, add func(stdhttp.Handler) stdhttp.Handler) {
	h := &handlers{svc: s}

	httpkit.GetParams(r, "/{username}", h.user)
	httpkit.GetParams(r, "/{username}/calendar", h.calendar)

	w := r
	if add != nil {
		w = r.With(add)
	}
	httpkit.PostParams(w, "/{username}", h.add)
}

type handlers struct{ svc domain.ServicePort }

// UserParams selects an account by handle
type UserParams struct {
	Username string `path:"username" validate:"required,username"`
}

// CalendarParams selects an account, a period grid and the metric to shade
type CalendarParams struct {
	Username string `path:"username" validate:"required,username"`
	Period   string `query:"period" default:"year" validate:"oneof=day week fortnight month year"`
	Metric   string `query:"metric" default:"followers" validate:"oneof=followers following tweets"`
}

// swagger:route GET /users/{username} Users usersGet
// @Summary Profile and hourly stats of a tracked account
// @Tags Users
// @Produce json
// @Param username path string true "Handle"
// @Success 200 {object} domain.UserStats "ok, data is null for untracked accounts"
// @Router /users/{username} [get]
func (h *handlers) user(r *stdhttp.Request, p UserParams) (int, any, error) {
	out, err := h.svc.User(logger.WithUsername(r.Context(), p.Username), p.Username)
	return stdhttp.StatusOK, out, err
}

// swagger:route GET /users/{username}/calendar Users usersCalendar
// @Summary Stats rolled up over a calendar grid
// @Tags Users
// @Produce json
// @Param username path string true "Handle"
// @Param period query string false "day, week, fortnight, month or year"
// @Param metric query string false "followers, following or tweets"
// @Success 200 {object} domain.Calendar "ok"
// @Router /users/{username}/calendar [get]
func (h *handlers) calendar(r *stdhttp.Request, p CalendarParams) (int, any, error) {
	out, err := h.svc.Calendar(logger.WithUsername(r.Context(), p.Username), p.Username, p.Period, stats.Metric(p.Metric))
	return stdhttp.StatusOK, out, err
}

// swagger:route POST /users/{username} Users usersAdd
// @Summary Start tracking an account, or refresh its profile
// @Tags Users
// @Produce json
// @Param username path string true "Handle"
// @Success 201 {object} domain.AddResult "created"
// @Success 200 {object} domain.AddResult "updated"
// @Failure 404 "no such account upstream"
// @Failure 503 "no profile source"
// @Router /users/{username} [post]
func (h *handlers) add(r *stdhttp.Request, p UserParams) (int, any, error) {
	res, err := h.svc.Add(logger.WithUsername(r.Context(), p.Username), p.Username)
	if err != nil {
		return 0, nil, err
	}
	if res.Created {
		return stdhttp.StatusCreated, res, nil
	}
	return stdhttp.StatusOK, res, nil
}
