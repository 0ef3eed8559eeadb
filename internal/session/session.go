// Package session holds the identity of the signed-in user for the lifetime
// of the client process.
//
// A Store starts in the loading state, is synchronized exactly once from its
// Persister by Initialize, and afterwards changes only through Login and
// Logout. While Loading is true, readers must treat authentication as unknown
// rather than anonymous.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// User is the persisted identity of the signed-in user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// State is a snapshot of the session.
type State struct {
	User    *User
	Loading bool
}

// Status classifies a State for route guards.
type Status int

const (
	StatusUnknown Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Status reports whether the state is authenticated, anonymous, or not yet known.
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusUnknown
	case s.User != nil:
		return StatusAuthenticated
	default:
		return StatusAnonymous
	}
}

// Persister stores the serialized user record. Load returns (nil, nil) when
// no record exists.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

type Store struct {
	persister Persister
	logger    *slog.Logger

	once sync.Once

	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New creates a Store in the loading state.
func New(p Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		persister: p,
		logger:    logger,
		state:     State{Loading: true},
		subs:      make(map[int]func(State)),
	}
}

// Initialize reads the persisted record. It runs once per Store; later calls
// are no-ops. An unreadable or corrupt record is treated as absent.
func (s *Store) Initialize(ctx context.Context) {
	s.once.Do(func() {
		user := s.readPersisted(ctx)
		s.set(State{User: user})
	})
}

func (s *Store) readPersisted(ctx context.Context) *User {
	data, err := s.persister.Load(ctx)
	if err != nil {
		s.logger.Warn("reading persisted session failed, continuing signed out", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		s.logger.Warn("persisted session is corrupt, continuing signed out", "error", err)
		return nil
	}
	if u.ID == "" {
		s.logger.Warn("persisted session has no user id, continuing signed out")
		return nil
	}
	return &u
}

// Login persists user and marks the session authenticated. Subscribers are
// notified before Login returns.
func (s *Store) Login(ctx context.Context, user User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.persister.Save(ctx, data); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	s.set(State{User: &user})
	return nil
}

// Logout clears the persisted record and marks the session anonymous.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.persister.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.set(State{})
	return nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(st State) {
	s.mu.Lock()
	s.state = st
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(copyState(st))
	}
}

func copyState(st State) State {
	if st.User == nil {
		return st
	}
	u := *st.User
	return State{User: &u, Loading: st.Loading}
}
