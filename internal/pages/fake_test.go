package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/kalambet/firmsfinder/internal/directory"
)

// fakeDirectory serves canned collections; the *Err fields make the matching
// call fail.
type fakeDirectory struct {
	mu sync.Mutex

	services    []directory.Service
	blogs       []directory.Blog
	interviews  []directory.Interview
	faqs        []directory.FAQ
	servicesErr error
	blogsErr    error
	faqsErr     error
	reviewErr   error

	searches []string
	reviews  []directory.Review
}

func (f *fakeDirectory) ListServices(_ context.Context, limit int, search string) ([]directory.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, search)
	if f.servicesErr != nil {
		return nil, f.servicesErr
	}
	out := f.services
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDirectory) GetService(_ context.Context, id string) (directory.Service, error) {
	for _, s := range f.services {
		if s.ID == id {
			return s, nil
		}
	}
	return directory.Service{}, fmt.Errorf("getting service %s: %w", id, directory.ErrNotFound)
}

func (f *fakeDirectory) ListBlogs(context.Context) ([]directory.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blogs, f.blogsErr
}

func (f *fakeDirectory) GetBlog(_ context.Context, id string) (directory.Blog, error) {
	if f.blogsErr != nil {
		return directory.Blog{}, f.blogsErr
	}
	for _, b := range f.blogs {
		if b.ID == id {
			return b, nil
		}
	}
	return directory.Blog{}, directory.ErrNotFound
}

func (f *fakeDirectory) ListInterviews(context.Context) ([]directory.Interview, error) {
	return f.interviews, nil
}

func (f *fakeDirectory) GetInterview(_ context.Context, id string) (directory.Interview, error) {
	for _, iv := range f.interviews {
		if iv.ID == id {
			return iv, nil
		}
	}
	return directory.Interview{}, directory.ErrNotFound
}

func (f *fakeDirectory) ListFAQs(context.Context) ([]directory.FAQ, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.faqs, f.faqsErr
}

func (f *fakeDirectory) SubmitReview(_ context.Context, r directory.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, r)
	return f.reviewErr
}

func (f *fakeDirectory) setFAQsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faqsErr = err
}

func svc(id, name, category string) directory.Service {
	return directory.Service{ID: id, ServiceName: name, Category: category}
}
