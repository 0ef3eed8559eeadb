package pages

import (
	"context"
	"sync"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/fetch"
	"github.com/kalambet/firmsfinder/internal/filter"
)

// Listing is a collection fetched once and filtered locally by the
// committed query.
type Listing[T any] struct {
	fetchAll func(context.Context) ([]T, error)
	fields   func(T) []string
	res      fetch.Resource[[]T]

	mu    sync.Mutex
	query string
}

type ListingSnapshot[T any] struct {
	Query string `json:"query"`
	Items []T    `json:"items"`
	Total int    `json:"total"`
	Status
}

func NewListing[T any](fetchAll func(context.Context) ([]T, error), fields func(T) []string) *Listing[T] {
	return &Listing[T]{fetchAll: fetchAll, fields: fields}
}

// NewBlogs matches title, description and category name.
func NewBlogs(dir Directory) *Listing[directory.Blog] {
	return NewListing(dir.ListBlogs, blogFields)
}

// NewInterviews matches name, position, company and plain-text description.
func NewInterviews(dir Directory) *Listing[directory.Interview] {
	return NewListing(dir.ListInterviews, interviewFields)
}

// NewFAQs matches question and answer.
func NewFAQs(dir Directory) *Listing[directory.FAQ] {
	return NewListing(dir.ListFAQs, faqFields)
}

// NewServiceSearch filters a full service fetch locally by name and
// category.
func NewServiceSearch(dir Directory, limit int) *Listing[directory.Service] {
	return NewListing(func(ctx context.Context) ([]directory.Service, error) {
		return dir.ListServices(ctx, limit, "")
	}, serviceFields)
}

// Load fetches the collection. Every visit of the route loads again; a
// failure keeps the previous items.
func (l *Listing[T]) Load(ctx context.Context) error {
	_, err := l.res.Load(ctx, l.fetchAll)
	return settle(err)
}

func (l *Listing[T]) SetQuery(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = query
}

func (l *Listing[T]) Snapshot() ListingSnapshot[T] {
	snap := l.res.Snapshot()
	l.mu.Lock()
	q := l.query
	l.mu.Unlock()

	items := filter.Apply(snap.Data, q, l.fields)
	return ListingSnapshot[T]{Query: q, Items: items, Total: len(snap.Data), Status: statusOf(snap)}
}
