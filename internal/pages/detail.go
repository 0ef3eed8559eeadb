package pages

import (
	"context"
	"errors"

	"github.com/kalambet/firmsfinder/internal/directory"
)

// Detail is the outcome of loading one entity. NotFound is set for absent
// entities; Back is where the user can recover to.
type Detail[T any] struct {
	Item     T      `json:"item"`
	NotFound bool   `json:"not_found"`
	Back     string `json:"back"`
	Err      error  `json:"-"`
}

// DetailView loads single entities for a detail route.
type DetailView[T any] struct {
	get  func(context.Context, string) (T, error)
	back string
}

func NewServiceDetail(dir Directory) *DetailView[directory.Service] {
	return &DetailView[directory.Service]{get: dir.GetService, back: "/allservices"}
}

func NewBlogDetail(dir Directory) *DetailView[directory.Blog] {
	return &DetailView[directory.Blog]{get: dir.GetBlog, back: "/blogs"}
}

func NewInterviewDetail(dir Directory) *DetailView[directory.Interview] {
	return &DetailView[directory.Interview]{get: dir.GetInterview, back: "/interviews"}
}

func (v *DetailView[T]) Load(ctx context.Context, id string) Detail[T] {
	d := Detail[T]{Back: v.back}
	item, err := v.get(ctx, id)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		d.NotFound = true
	case err != nil:
		d.Err = err
	default:
		d.Item = item
	}
	return d
}
