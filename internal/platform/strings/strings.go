// Package strings provides small string helpers shared by handlers and repos
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes a mount path like /users to a single leading slash
// and no trailing slash. Panics on the root path.
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// SQLNull returns nil for blank s so the column is stored as NULL
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// Deref returns "" if ps is nil, else *ps
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}

// Handle canonicalizes an account handle: trimmed, without a leading @,
// lowercased
func Handle(s string) string {
	return std.ToLower(std.TrimPrefix(std.TrimSpace(s), "@"))
}
