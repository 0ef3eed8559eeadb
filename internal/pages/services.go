package pages

import (
	"context"
	"slices"
	"sync"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/fetch"
	"github.com/kalambet/firmsfinder/internal/order"
	"github.com/kalambet/firmsfinder/internal/pager"
)

// Services backs the all-services route: a backend search, sorted by name,
// shown one page at a time.
type Services struct {
	dir    Directory
	limit  int
	window int
	res    fetch.Resource[[]directory.Service]

	mu    sync.Mutex
	query string
	pager *pager.Pager
}

type ServicesSnapshot struct {
	Query      string              `json:"query"`
	Items      []directory.Service `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Window     []int               `json:"window"`
	HasPrev    bool                `json:"has_prev"`
	HasNext    bool                `json:"has_next"`
	Status
}

func NewServices(dir Directory, limit, pageSize, window int) *Services {
	return &Services{dir: dir, limit: limit, window: window, pager: pager.New(pageSize)}
}

// SetQuery runs a new search and returns to page 1.
func (v *Services) SetQuery(ctx context.Context, query string) error {
	v.mu.Lock()
	v.query = query
	v.pager.Reset()
	v.mu.Unlock()
	return v.load(ctx, query)
}

// Ensure shows results for query, searching again when the query changed or
// the last search failed. A successful result for the same query is reused so
// the current page survives.
func (v *Services) Ensure(ctx context.Context, query string) error {
	snap := v.res.Snapshot()
	v.mu.Lock()
	same := v.query == query
	v.mu.Unlock()

	switch {
	case !same:
		return v.SetQuery(ctx, query)
	case !snap.Loaded || snap.Err != nil:
		return v.Reload(ctx)
	}
	return nil
}

// Reload repeats the current search.
func (v *Services) Reload(ctx context.Context) error {
	v.mu.Lock()
	q := v.query
	v.mu.Unlock()
	return v.load(ctx, q)
}

func (v *Services) load(ctx context.Context, query string) error {
	_, err := v.res.Load(ctx, func(ctx context.Context) ([]directory.Service, error) {
		list, err := v.dir.ListServices(ctx, v.limit, query)
		if err != nil {
			return nil, err
		}
		return order.Sort(list, directory.Service.Name), nil
	})
	return settle(err)
}

// GoTo moves to page n, rejecting pages outside the current result.
func (v *Services) GoTo(n int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.SetCount(len(v.res.Snapshot().Data))
	return v.pager.GoTo(n)
}

func (v *Services) Next() error {
	v.mu.Lock()
	n := v.pager.Page() + 1
	v.mu.Unlock()
	return v.GoTo(n)
}

func (v *Services) Prev() error {
	v.mu.Lock()
	n := v.pager.Page() - 1
	v.mu.Unlock()
	return v.GoTo(n)
}

func (v *Services) Snapshot() ServicesSnapshot {
	snap := v.res.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.SetCount(len(snap.Data))
	return ServicesSnapshot{
		Query:      v.query,
		Items:      slices.Clone(pager.Slice(v.pager, snap.Data)),
		Total:      len(snap.Data),
		Page:       v.pager.Page(),
		TotalPages: v.pager.TotalPages(),
		Window:     v.pager.Window(v.window),
		HasPrev:    v.pager.HasPrev(),
		HasNext:    v.pager.HasNext(),
		Status:     statusOf(snap),
	}
}
