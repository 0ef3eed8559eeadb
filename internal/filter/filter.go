// Package filter narrows an already-fetched collection by a search query.
package filter

import "strings"

// Matches reports whether any field contains query, ignoring case. The query
// is matched as one substring; it is not split into words.
func Matches(fields []string, query string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Apply returns the items whose fields match query, in input order. An empty
// query returns items itself.
func Apply[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if Matches(fields(it), query) {
			out = append(out, it)
		}
	}
	return out
}
