// Package pagination turns an ordered, possibly large result set into bounded pages.
package pagination

import (
	"context"
	"errors"
	"fmt"
)

const (
	DefaultPageSize = 30
	DefaultHardCap  = 500
)

var ErrInvalidPage = errors.New("page number must be greater than 0")

// Source is an ordered result set. Count reports how many rows fall within
// the first max rows; Fetch returns rows [offset, offset+limit) of the same order.
type Source[T any] interface {
	Count(ctx context.Context, max int) (int, error)
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

type Options struct {
	PageSize int
	HardCap  int
}

func DefaultOptions() Options {
	return Options{PageSize: DefaultPageSize, HardCap: DefaultHardCap}
}

type Page[T any] struct {
	CurrentPage  int  `json:"current_page"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
	Items        []T  `json:"items"`
	NextPage     *int `json:"next_page"`
	PreviousPage *int `json:"previous_page"`
	Pages        int  `json:"pages"`
	Total        int  `json:"total"`
}

// Paginate limits src to the first HardCap rows and returns page number page
// of PageSize rows from that window. A page past the last one comes back with
// no items and correct totals.
func Paginate[T any](ctx context.Context, src Source[T], page int, opts Options) (*Page[T], error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.HardCap < 1 {
		opts.HardCap = DefaultHardCap
	}

	total, err := src.Count(ctx, opts.HardCap)
	if err != nil {
		return nil, fmt.Errorf("pagination count: %w", err)
	}
	if total > opts.HardCap {
		total = opts.HardCap
	}

	result := &Page[T]{
		CurrentPage: page,
		Items:       []T{},
		Pages:       Pages(total, opts.PageSize),
		Total:       total,
	}
	result.HasPrevious = page > 1
	result.HasNext = page < result.Pages
	if result.HasPrevious {
		prev := page - 1
		result.PreviousPage = &prev
	}
	if result.HasNext {
		next := page + 1
		result.NextPage = &next
	}

	offset := (page - 1) * opts.PageSize
	if offset >= total {
		return result, nil
	}

	limit := opts.PageSize
	if offset+limit > total {
		limit = total - offset
	}

	items, err := src.Fetch(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("pagination fetch: %w", err)
	}
	if items != nil {
		result.Items = items
	}

	return result, nil
}

// Pages is ceil(total / size).
func Pages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// SliceSource serves an already ordered in-memory slice.
type SliceSource[T any] []T

func (s SliceSource[T]) Count(_ context.Context, max int) (int, error) {
	if len(s) < max {
		return len(s), nil
	}
	return max, nil
}

func (s SliceSource[T]) Fetch(_ context.Context, offset, limit int) ([]T, error) {
	if offset >= len(s) {
		return []T{}, nil
	}
	end := offset + limit
	if end > len(s) {
		end = len(s)
	}
	return s[offset:end], nil
}
