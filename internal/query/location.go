package query

import (
	"net/url"
	"strings"
	"sync"
)

// SearchParam is the address-bar parameter that mirrors the committed query.
const SearchParam = "search"

// Location is a client-side address: a route path plus the optional search
// parameter.
type Location struct {
	Path   string
	Search string
}

func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = "/"
	}
	if l.Search == "" {
		return path
	}
	v := url.Values{}
	v.Set(SearchParam, l.Search)
	return path + "?" + v.Encode()
}

// ParseLocation reads a path with an optional query string.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, err
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return Location{Path: path, Search: u.Query().Get(SearchParam)}, nil
}

// BasePath maps a route to the listing that receives the search parameter.
func BasePath(path string) string {
	switch {
	case strings.Contains(path, "/interviews"):
		return "/interviews"
	case strings.Contains(path, "/blogs"):
		return "/blogs"
	default:
		return "/"
	}
}

// Navigator exposes the current location and rewrites it in place.
type Navigator interface {
	Location() Location
	Replace(Location)
}

// History is an in-memory navigation stack.
type History struct {
	mu      sync.Mutex
	entries []Location
}

func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

func (h *History) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Replace overwrites the current entry.
func (h *History) Replace(l Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = l
}

// Push adds a new entry.
func (h *History) Push(l Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, l)
}

// Back pops the current entry; the first entry is never popped.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 1 {
		return h.entries[0], false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.entries[len(h.entries)-1], true
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
