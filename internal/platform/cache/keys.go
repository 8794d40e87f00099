package cache

import "strings"

// Key namespace shared by every instance writing to the same store
const (
	usersPrefix  = "api/users/"
	homeKey      = "app/home"
	expandPrefix = "expand:"
)

// UserKey is the per account stats response. username must already be
// canonical (see strings.Handle).
func UserKey(username string) string { return usersPrefix + username }

// HomeKey is the ranked day over day summary
func HomeKey() string { return homeKey }

// ExpandKey is the resolved target of a shortened link
func ExpandKey(url string) string { return expandPrefix + url }

// Family groups keys for metrics so labels stay bounded
func Family(key string) string {
	switch {
	case strings.HasPrefix(key, usersPrefix):
		return "users"
	case key == homeKey:
		return "home"
	case strings.HasPrefix(key, expandPrefix):
		return "expand"
	}
	return "other"
}
