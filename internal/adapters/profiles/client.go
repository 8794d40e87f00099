// Package profiles looks tracked accounts up on the upstream profile API
package profiles

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/logger"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUA        = "followstats-api"
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxBackoff       = 30 * time.Second
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Comma separated bearer tokens, rotated per request
	TokensCSV string

	MaxRetries int
	RetryBase  time.Duration
}

// Client is a small REST client with token rotation, retries and rate limit
// backoff
type Client struct {
	http   *http.Client
	opts   Options
	tokens []string
	cur    atomic.Int32
	log    logger.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

// NewClient creates a Client, filling unset options with defaults
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	var toks []string
	for t := range strings.SplitSeq(o.TokensCSV, ",") {
		if t = strings.TrimSpace(t); t != "" {
			toks = append(toks, t)
		}
	}
	return &Client{
		http:   &http.Client{Timeout: o.Timeout},
		opts:   o,
		tokens: toks,
		log:    *logger.Named("profiles"),
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func (c *Client) token() string {
	n := int(c.cur.Add(1))
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[n%len(c.tokens)]
}

// Get issues a GET for path. 200 and 404 hand the response back to the
// caller, who must close the body; 429 and 5xx gateway errors are retried.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	url := c.opts.BaseURL + path
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "profiles new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Accept", "application/json")
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}

		start := c.now()
		resp, err := c.http.Do(req)
		if err != nil {
			if attempt >= c.opts.MaxRetries {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "profiles request failed")
			}
			back := c.backoff(attempt)
			c.log.Warn().Err(err).Dur("retry_in", back).Int("attempt", attempt).Msg("profiles transport error retrying")
			if err := c.pause(ctx, back); err != nil {
				return nil, err
			}
			continue
		}

		remaining, reset, retryAfter := parseRateHeaders(resp.Header)
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("latency", c.now().Sub(start)).
			Int("rate_remaining", remaining).
			Msg("profiles http response")

		switch resp.StatusCode {
		case http.StatusOK, http.StatusNotFound:
			return resp, nil
		case http.StatusTooManyRequests:
			_ = drainAndClose(resp.Body)
			if attempt >= c.opts.MaxRetries {
				return nil, perr.TooManyRequestsf("profiles rate limited")
			}
			wait := computeWait(remaining, reset, retryAfter, c.now())
			if wait <= 0 {
				wait = c.backoff(attempt)
			}
			wait = min(wait, maxBackoff)
			c.log.Warn().Dur("sleep", wait).Msg("profiles rate limited backing off")
			if err := c.pause(ctx, wait); err != nil {
				return nil, err
			}
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if attempt >= c.opts.MaxRetries {
				return nil, perr.Unavailablef("profiles upstream answered %d", resp.StatusCode)
			}
			back := c.backoff(attempt)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempt).Msg("profiles transient error retrying")
			if err := c.pause(ctx, back); err != nil {
				return nil, err
			}
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Unavailablef("profiles unexpected status %d body %s", resp.StatusCode, string(body))
		}
	}
}

// pause waits d, at most maxBackoff, or until ctx is done
func (c *Client) pause(ctx context.Context, d time.Duration) error {
	return c.sleep(ctx, min(d, maxBackoff))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// backoff doubles RetryBase per attempt up to maxBackoff
func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	for i := 0; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}
