// Package fetch tracks remote collections that are reloaded as queries change.
package fetch

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrStale is returned by Load when a newer Load was issued before this one
// completed. Its result has been discarded.
var ErrStale = errors.New("fetch: superseded by a newer load")

// Snapshot is the observable state of a Resource.
type Snapshot[T any] struct {
	Data    T
	Loaded  bool
	Loading bool
	Err     error
}

// Resource holds the last good result of a remote load. Only the most
// recently issued load may update it; a failed load records its error and
// keeps the previous data.
type Resource[T any] struct {
	mu       sync.Mutex
	data     T
	loaded   bool
	err      error
	issued   uint64
	inFlight int
}

// Load runs fn and applies its outcome if no later Load was issued meanwhile.
func (r *Resource[T]) Load(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	r.issued++
	token := r.issued
	r.inFlight++
	r.mu.Unlock()

	v, err := fn(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight--
	if token != r.issued {
		var zero T
		return zero, ErrStale
	}
	if err != nil {
		r.err = err
		return r.data, err
	}
	r.data = v
	r.loaded = true
	r.err = nil
	return v, nil
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{
		Data:    r.data,
		Loaded:  r.loaded,
		Loading: r.inFlight > 0,
		Err:     r.err,
	}
}

// All runs loaders concurrently. The first failure cancels the context seen
// by the others and is returned; callers should commit staged results only
// on a nil error.
func All(ctx context.Context, loaders ...func(context.Context) error) error {
	g, gCtx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		g.Go(func() error {
			return load(gCtx)
		})
	}
	return g.Wait()
}
