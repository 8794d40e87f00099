// Package raw reads bootstrap settings before the logger exists. It must not
// import the logger.
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a prefixed env view, e.g. New().Prefix("LOG_")
type Conf struct{ prefix string }

// New returns a Conf without prefix
func New() Conf { return Conf{} }

// Prefix returns a child view
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) val(key string) string { return strings.TrimSpace(os.Getenv(c.prefix + key)) }

// Get returns the value or def when unset
func (c Conf) Get(key, def string) string {
	if v := c.val(key); v != "" {
		return v
	}
	return def
}

// GetBool accepts 1, true and yes in any case. Anything else set is false.
func (c Conf) GetBool(key string, def bool) bool {
	switch v := strings.ToLower(c.val(key)); v {
	case "":
		return def
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// GetInt returns a non negative integer or def
func (c Conf) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.val(key))
	if err != nil || n < 0 {
		return def
	}
	return n
}
