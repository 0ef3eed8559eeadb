package pages

import (
	"context"
	"sync"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/fetch"
	"github.com/kalambet/firmsfinder/internal/filter"
	"github.com/kalambet/firmsfinder/internal/order"
	"github.com/kalambet/firmsfinder/internal/session"
)

// HomeData is the bundle loaded for the landing page. Its three collections
// are replaced together or not at all.
type HomeData struct {
	Services []directory.Service
	FAQs     []directory.FAQ
	Blogs    []directory.Blog
}

// Home backs the landing route: services grouped by category, the blog
// carousel and the FAQ list.
type Home struct {
	dir           Directory
	sessions      *session.Store
	servicesLimit int
	groupCap      int
	res           fetch.Resource[HomeData]

	mu    sync.Mutex
	query string
}

type HomeSnapshot struct {
	Query      string                          `json:"query"`
	Categories order.Groups[directory.Service] `json:"categories"`
	FAQs       []directory.FAQ                 `json:"faqs"`
	Blogs      []directory.Blog                `json:"blogs"`
	Status
}

func NewHome(dir Directory, sessions *session.Store, servicesLimit, groupCap int) *Home {
	return &Home{dir: dir, sessions: sessions, servicesLimit: servicesLimit, groupCap: groupCap}
}

// Load fetches services for query together with FAQs and blogs. If any of
// the three fails, none of the collections change.
func (h *Home) Load(ctx context.Context, query string) error {
	h.mu.Lock()
	h.query = query
	h.mu.Unlock()

	_, err := h.res.Load(ctx, func(ctx context.Context) (HomeData, error) {
		var next HomeData
		err := fetch.All(ctx,
			func(ctx context.Context) (err error) {
				next.Services, err = h.dir.ListServices(ctx, h.servicesLimit, query)
				return err
			},
			func(ctx context.Context) (err error) {
				next.FAQs, err = h.dir.ListFAQs(ctx)
				return err
			},
			func(ctx context.Context) (err error) {
				next.Blogs, err = h.dir.ListBlogs(ctx)
				return err
			},
		)
		return next, err
	})
	return settle(err)
}

func (h *Home) Snapshot() HomeSnapshot {
	snap := h.res.Snapshot()
	h.mu.Lock()
	q := h.query
	h.mu.Unlock()

	groups := order.GroupBy(snap.Data.Services, func(s directory.Service) string { return s.Category })
	return HomeSnapshot{
		Query:      q,
		Categories: groups.Capped(h.groupCap),
		FAQs:       filter.Apply(snap.Data.FAQs, q, faqFields),
		Blogs:      snap.Data.Blogs,
		Status:     statusOf(snap),
	}
}
