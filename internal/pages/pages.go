// Package pages composes fetching, filtering, sorting and paging into the
// view models behind each client route. Views are safe for concurrent use and
// keep previously loaded data when a reload fails.
package pages

import (
	"context"
	"errors"

	"github.com/kalambet/firmsfinder/internal/directory"
	"github.com/kalambet/firmsfinder/internal/fetch"
)

// LoadFailedMessage is shown for every kind of load failure.
const LoadFailedMessage = "Failed to load data. Please try again later."

// Directory is the backend surface used by the views.
type Directory interface {
	ListServices(ctx context.Context, limit int, search string) ([]directory.Service, error)
	GetService(ctx context.Context, id string) (directory.Service, error)
	ListBlogs(ctx context.Context) ([]directory.Blog, error)
	GetBlog(ctx context.Context, id string) (directory.Blog, error)
	ListInterviews(ctx context.Context) ([]directory.Interview, error)
	GetInterview(ctx context.Context, id string) (directory.Interview, error)
	ListFAQs(ctx context.Context) ([]directory.FAQ, error)
	SubmitReview(ctx context.Context, r directory.Review) error
}

// Status is the load state shared by all list views.
type Status struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

func statusOf[T any](s fetch.Snapshot[T]) Status {
	st := Status{Loaded: s.Loaded, Loading: s.Loading}
	if s.Err != nil {
		st.Error = LoadFailedMessage
	}
	return st
}

// settle hides results superseded by a newer load.
func settle(err error) error {
	if errors.Is(err, fetch.ErrStale) {
		return nil
	}
	return err
}

func serviceFields(s directory.Service) []string {
	return []string{s.ServiceName, s.Category}
}

func blogFields(b directory.Blog) []string {
	return []string{b.Text, b.Description, b.CategoryName()}
}

func interviewFields(iv directory.Interview) []string {
	return []string{iv.Name, iv.Position, iv.Company, iv.Description}
}

func faqFields(f directory.FAQ) []string {
	return []string{f.Question, f.Answer}
}
