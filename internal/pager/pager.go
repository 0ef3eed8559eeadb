// Package pager splits a sorted list into fixed-size pages.
package pager

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("page out of range")

// Pager tracks the current page of a list of count items. It is not safe for
// concurrent use.
type Pager struct {
	size  int
	count int
	page  int
}

// New returns a pager on page 1. Sizes below 1 are treated as 1.
func New(size int) *Pager {
	if size < 1 {
		size = 1
	}
	return &Pager{size: size, page: 1}
}

func (p *Pager) Size() int  { return p.size }
func (p *Pager) Count() int { return p.count }
func (p *Pager) Page() int  { return p.page }

// TotalPages is ceil(count/size), never less than 1.
func (p *Pager) TotalPages() int {
	if p.count == 0 {
		return 1
	}
	return (p.count + p.size - 1) / p.size
}

// SetCount updates the list length, moving to the last page when the current
// one no longer exists.
func (p *Pager) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	p.count = n
	if total := p.TotalPages(); p.page > total {
		p.page = total
	}
}

// GoTo moves to page n. Out-of-range requests leave the page unchanged.
func (p *Pager) GoTo(n int) error {
	if total := p.TotalPages(); n < 1 || n > total {
		return fmt.Errorf("%w: page %d of %d", ErrOutOfRange, n, total)
	}
	p.page = n
	return nil
}

func (p *Pager) Next() error { return p.GoTo(p.page + 1) }
func (p *Pager) Prev() error { return p.GoTo(p.page - 1) }

func (p *Pager) Reset() { p.page = 1 }

func (p *Pager) HasPrev() bool { return p.page > 1 }
func (p *Pager) HasNext() bool { return p.page < p.TotalPages() }

// Bounds returns the half-open index range of the current page.
func (p *Pager) Bounds() (start, end int) {
	start = (p.page - 1) * p.size
	end = min(start+p.size, p.count)
	if start > end {
		start = end
	}
	return start, end
}

// Slice returns the current page of items. items is expected to hold Count
// elements; the range is clamped to len(items) otherwise.
func Slice[T any](p *Pager, items []T) []T {
	start, end := p.Bounds()
	end = min(end, len(items))
	start = min(start, end)
	return items[start:end]
}

// Window returns up to width consecutive page numbers around the current
// page, shifted inward at either end so it stays full when possible.
func (p *Pager) Window(width int) []int {
	total := p.TotalPages()
	width = min(width, total)
	if width < 1 {
		return nil
	}
	start := p.page - (width-1)/2
	start = max(1, min(start, total-width+1))
	out := make([]int, width)
	for i := range out {
		out[i] = start + i
	}
	return out
}
