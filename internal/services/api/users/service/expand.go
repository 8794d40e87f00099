package service

import (
	"context"
	"io"
	"net/http"
	"time"

	"followstats/internal/platform/cache"
	perr "followstats/internal/platform/errors"
)

// Expander resolves shortened links by following redirects. Results are
// cached without expiry since a short link never changes target.
type Expander struct {
	client *http.Client
	cache  *cache.Memo
}

// NewExpander returns an Expander. A nil client gets a 5s timeout client;
// a nil memo disables caching.
func NewExpander(client *http.Client, memo *cache.Memo) *Expander {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Expander{client: client, cache: memo}
}

// Expand returns the final URL after redirects
func (e *Expander) Expand(ctx context.Context, url string) (string, error) {
	if e.cache == nil {
		return e.resolve(ctx, url)
	}
	return cache.Get(ctx, e.cache, cache.ExpandKey(url), func(ctx context.Context) (string, error) {
		return e.resolve(ctx, url)
	}, cache.Forever())
}

func (e *Expander) resolve(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeInvalidArgument, "expand: bad url")
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "expand: request")
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", perr.Newf(perr.ErrorCodeUnavailable, "expand: %s answered %d", url, resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}
