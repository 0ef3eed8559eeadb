package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_SuccessReplacesData(t *testing.T) {
	var r Resource[[]string]

	got, err := r.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"a"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	snap := r.Snapshot()
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
}

func TestResource_FailureKeepsPreviousData(t *testing.T) {
	var r Resource[[]string]
	_, err := r.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"kept"}, nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	got, err := r.Load(context.Background(), func(context.Context) ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"kept"}, got)

	snap := r.Snapshot()
	assert.Equal(t, []string{"kept"}, snap.Data)
	assert.ErrorIs(t, snap.Err, boom)

	_, err = r.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"fresh"}, nil
	})
	require.NoError(t, err)
	assert.NoError(t, r.Snapshot().Err, "success clears the error")
}

// A slow response for an old query must not overwrite a newer one.
func TestResource_LatestLoadWins(t *testing.T) {
	var r Resource[string]
	release := make(chan struct{})
	started := make(chan struct{})
	oldDone := make(chan error, 1)

	go func() {
		_, err := r.Load(context.Background(), func(context.Context) (string, error) {
			close(started)
			<-release
			return "old", nil
		})
		oldDone <- err
	}()
	<-started

	assert.True(t, r.Snapshot().Loading)

	got, err := r.Load(context.Background(), func(context.Context) (string, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got)

	close(release)
	assert.ErrorIs(t, <-oldDone, ErrStale)
	assert.Equal(t, "new", r.Snapshot().Data)
	assert.False(t, r.Snapshot().Loading)
}

func TestAll_Success(t *testing.T) {
	var a, b, c int
	err := All(context.Background(),
		func(context.Context) error { a = 1; return nil },
		func(context.Context) error { b = 2; return nil },
		func(context.Context) error { c = 3; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{a, b, c})
}

func TestAll_FailFastCancelsSiblings(t *testing.T) {
	boom := errors.New("faqs unavailable")
	var cancelled atomic.Bool

	err := All(context.Background(),
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				cancelled.Store(true)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
		func(context.Context) error { return boom },
	)
	assert.ErrorIs(t, err, boom)
	assert.True(t, cancelled.Load())
}

type bundle struct {
	services, faqs, blogs []string
}

// One of three loads failing leaves the previously loaded bundle in place.
func TestAll_OneOfThreeFailingRetainsPreviousData(t *testing.T) {
	var r Resource[bundle]
	load := func(failFAQs bool) (bundle, error) {
		return r.Load(context.Background(), func(ctx context.Context) (bundle, error) {
			var next bundle
			err := All(ctx,
				func(context.Context) error { next.services = []string{"s2"}; return nil },
				func(context.Context) error {
					if failFAQs {
						return errors.New("503")
					}
					next.faqs = []string{"f2"}
					return nil
				},
				func(context.Context) error { next.blogs = []string{"b2"}; return nil },
			)
			return next, err
		})
	}

	r.Load(context.Background(), func(context.Context) (bundle, error) {
		return bundle{services: []string{"s1"}, faqs: []string{"f1"}, blogs: []string{"b1"}}, nil
	})

	_, err := load(true)
	require.Error(t, err)

	snap := r.Snapshot()
	assert.Error(t, snap.Err)
	assert.Equal(t, []string{"s1"}, snap.Data.services)
	assert.Equal(t, []string{"f1"}, snap.Data.faqs)
	assert.Equal(t, []string{"b1"}, snap.Data.blogs)

	_, err = load(false)
	require.NoError(t, err)
	assert.Equal(t, []string{"f2"}, r.Snapshot().Data.faqs)
}
