// Package query keeps a search box, the address bar and downstream fetches
// consistent.
//
// Raw input updates synchronously; the committed query follows once the
// debounce window has passed with no further input, and the address bar is
// rewritten by history replacement so the search stays shareable.
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/kalambet/firmsfinder/internal/debounce"
)

// State is the query state of one search box.
type State struct {
	RawInput  string
	Committed string
	Page      int
}

type Option func(*Synchronizer)

// WithOnCommit registers a callback run after every commit.
func WithOnCommit(fn func(State)) Option {
	return func(s *Synchronizer) { s.onCommit = fn }
}

// WithAfterFunc replaces the debounce timer source.
func WithAfterFunc(after debounce.AfterFunc) Option {
	return func(s *Synchronizer) { s.after = after }
}

// pendingInput is a raw value tagged with the navigation epoch it was typed in.
type pendingInput struct {
	raw   string
	epoch uint64
}

type Synchronizer struct {
	nav      Navigator
	deb      *debounce.Debouncer[pendingInput]
	onCommit func(State)
	after    debounce.AfterFunc

	// navMu orders commits against navigations, so a commit never lands on a
	// location reached after its input was typed.
	navMu sync.Mutex

	mu    sync.Mutex
	state State
	epoch uint64
}

// NewSynchronizer seeds the state from the navigator's current location.
func NewSynchronizer(nav Navigator, delay time.Duration, opts ...Option) *Synchronizer {
	s := &Synchronizer{nav: nav, after: debounce.SystemAfterFunc}
	for _, opt := range opts {
		opt(s)
	}
	loc := nav.Location()
	s.state = State{RawInput: loc.Search, Committed: loc.Search, Page: 1}
	s.deb = debounce.New(delay, s.commit, debounce.WithAfterFunc(s.after))
	return s
}

// Input records a keystroke-level value and restarts the settling window.
func (s *Synchronizer) Input(raw string) {
	s.mu.Lock()
	s.state.RawInput = raw
	p := pendingInput{raw: raw, epoch: s.epoch}
	s.mu.Unlock()
	s.deb.Push(p)
}

// Submit commits the current raw input immediately.
func (s *Synchronizer) Submit() {
	if s.deb.Flush() {
		return
	}
	s.mu.Lock()
	p := pendingInput{raw: s.state.RawInput, epoch: s.epoch}
	s.mu.Unlock()
	s.commit(p)
}

// Pending reports whether typed input is still waiting to be committed.
func (s *Synchronizer) Pending() bool {
	return s.deb.Pending()
}

// Navigate runs move, which changes the navigator's location, and adopts the
// resulting location. Pending input is dropped, as is any commit already
// in flight.
func (s *Synchronizer) Navigate(move func()) {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	s.deb.Cancel()
	if move != nil {
		move()
	}
	s.adopt(s.nav.Location())
}

// SyncFromLocation adopts the search parameter of a location reached by
// navigation. Pending input is dropped.
func (s *Synchronizer) SyncFromLocation(loc Location) {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	s.deb.Cancel()
	s.adopt(loc)
}

func (s *Synchronizer) adopt(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state.RawInput = loc.Search
	if s.state.Committed != loc.Search {
		s.state.Committed = loc.Search
		s.state.Page = 1
	}
}

// SetPage stores the page shown for the committed query.
func (s *Synchronizer) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Page = page
}

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels any pending commit.
func (s *Synchronizer) Close() {
	s.deb.Stop()
}

func (s *Synchronizer) commit(p pendingInput) {
	value := strings.TrimSpace(p.raw)

	s.navMu.Lock()
	s.mu.Lock()
	if p.epoch != s.epoch {
		s.mu.Unlock()
		s.navMu.Unlock()
		return
	}
	if value != s.state.Committed {
		s.state.Committed = value
		s.state.Page = 1
	}
	st := s.state
	s.mu.Unlock()

	// The path is read now, not when typing started: the route may have
	// changed inside the window without an explicit navigation.
	loc := s.nav.Location()
	base := BasePath(loc.Path)
	switch {
	case value != "":
		s.nav.Replace(Location{Path: base, Search: value})
	case loc.Search != "":
		s.nav.Replace(Location{Path: base})
	}
	s.navMu.Unlock()

	if s.onCommit != nil {
		s.onCommit(st)
	}
}
