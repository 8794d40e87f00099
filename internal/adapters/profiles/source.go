package profiles

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"followstats/internal/core/stats"
	"followstats/internal/platform/config"
	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/logger"
	pstrings "followstats/internal/platform/strings"
	ptime "followstats/internal/platform/time"
	"followstats/internal/services/api/users/domain"
)

// document is the upstream account shape; only the fields we keep
type document struct {
	Username  *string    `json:"username"`
	Avatar    *string    `json:"avatar"`
	Banner    *string    `json:"banner"`
	Biography *string    `json:"biography"`
	Location  *string    `json:"location"`
	Website   *string    `json:"website"`
	Joined    time.Time  `json:"joined"`
	Followers int64      `json:"followers_count"`
	Following int64      `json:"following_count"`
	Tweets    int64      `json:"tweets_count"`
}

var linkRe = regexp.MustCompile(`(?:https?|ftp)://[\w-]+(?:\.[\w-]+)+(?:[\w.,@?^=%&:/~+#-]*[\w@?^=%&/~+#-])?`)

// Source implements domain.ProfileSource over the upstream REST API
type Source struct {
	c        *Client
	expander domain.Expander
}

// NewSource wraps c. A non nil expander rewrites links found in the bio to
// their targets.
func NewSource(c *Client, expander domain.Expander) *Source {
	if c == nil {
		panic("profiles.NewSource: nil client")
	}
	return &Source{c: c, expander: expander}
}

// FromConfig builds a Source from BASE_URL, TOKENS, TIMEOUT and MAX_RETRIES.
// It returns nil when BASE_URL is unset so adds stay disabled.
func FromConfig(cfg config.Conf, expander domain.Expander) *Source {
	base := cfg.MayString("BASE_URL", "")
	if base == "" {
		return nil
	}
	return NewSource(NewClient(Options{
		BaseURL:    base,
		TokensCSV:  cfg.MayString("TOKENS", ""),
		Timeout:    cfg.MayDuration("TIMEOUT", defaultTimeout),
		MaxRetries: cfg.MayInt("MAX_RETRIES", defaultMaxRetry),
	}), expander)
}

// Lookup fetches username. Unknown accounts give (nil, nil).
func (s *Source) Lookup(ctx context.Context, username string) (*domain.Snapshot, error) {
	log := logger.C(ctx)
	path := "/users/" + url.PathEscape(username)

	resp, err := s.c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Error().Err(cerr).Str("path", path).Msg("profiles close body failed")
		}
	}()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "profiles read body")
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "profiles decode body")
	}
	if pstrings.Deref(doc.Username) == "" {
		log.Warn().Str("lookup", username).Msg("upstream profile without username")
		return nil, nil
	}

	return &domain.Snapshot{
		Profile: domain.Profile{
			// the requested handle wins over upstream casing
			Username: username,
			Avatar:   pstrings.Deref(doc.Avatar),
			Banner:   pstrings.Deref(doc.Banner),
			Bio:      s.expandBio(ctx, pstrings.Deref(doc.Biography)),
			Location: pstrings.Deref(doc.Location),
			Website:  pstrings.Deref(doc.Website),
			JoinedAt: ptime.Ptr(doc.Joined),
		},
		Counts: stats.Counts{Followers: doc.Followers, Following: doc.Following, Tweets: doc.Tweets},
	}, nil
}

// expandBio replaces every link in bio with its target. Links that fail to
// expand are left as they are.
func (s *Source) expandBio(ctx context.Context, bio string) string {
	if s.expander == nil || bio == "" {
		return bio
	}
	links := linkRe.FindAllString(bio, -1)
	if len(links) == 0 {
		return bio
	}
	pairs := make([]string, 0, 2*len(links))
	for _, l := range links {
		to, err := s.expander.Expand(ctx, l)
		if err != nil || to == "" {
			logger.C(ctx).Debug().Err(err).Str("link", l).Msg("bio link not expanded")
			continue
		}
		pairs = append(pairs, l, to)
	}
	return strings.NewReplacer(pairs...).Replace(bio)
}
