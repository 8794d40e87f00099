package stats

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Humanize renders the magnitude of n in a short form: 999, 1.2K, 3.4M.
// The sign is dropped so callers can prefix their own.
func Humanize(n int64) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n < 1_000:
		return strconv.FormatInt(n, 10)
	case n < 1_000_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
}

// Signed prefixes Humanize with + or - and leaves zero bare
func Signed(n int64) string {
	switch {
	case n > 0:
		return "+" + Humanize(n)
	case n < 0:
		return "-" + Humanize(n)
	}
	return "0"
}

// Grouped renders n with the digit grouping of tag, e.g. 12,345 for English
func Grouped(n int64, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf("%d", n)
}
