package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) SliceSource[int] {
	s := make(SliceSource[int], n)
	for i := range s {
		s[i] = n - i
	}
	return s
}

func TestPaginate_PageSizes(t *testing.T) {
	ctx := context.Background()

	for _, total := range []int{1, 29, 30, 31, 59, 60, 61, 499, 500, 777} {
		src := numbers(total)
		opts := DefaultOptions()

		first, err := Paginate[int](ctx, src, 1, opts)
		require.NoError(t, err)

		capped := total
		if capped > opts.HardCap {
			capped = opts.HardCap
		}
		assert.Equal(t, capped, first.Total)
		assert.Equal(t, (capped+opts.PageSize-1)/opts.PageSize, first.Pages)

		seen := 0
		for page := 1; page <= first.Pages; page++ {
			p, err := Paginate[int](ctx, src, page, opts)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(p.Items), opts.PageSize)
			if page < p.Pages {
				assert.Len(t, p.Items, opts.PageSize, "total=%d page=%d", total, page)
			}
			seen += len(p.Items)
		}
		assert.Equal(t, capped, seen)
	}
}

func TestPaginate_Flags(t *testing.T) {
	ctx := context.Background()
	src := numbers(75)

	p, err := Paginate[int](ctx, src, 1, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentPage)
	assert.False(t, p.HasPrevious)
	assert.True(t, p.HasNext)
	assert.Nil(t, p.PreviousPage)
	require.NotNil(t, p.NextPage)
	assert.Equal(t, 2, *p.NextPage)
	assert.Equal(t, []int(src[:30]), p.Items)

	p, err = Paginate[int](ctx, src, 3, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, p.HasPrevious)
	assert.False(t, p.HasNext)
	require.NotNil(t, p.PreviousPage)
	assert.Equal(t, 2, *p.PreviousPage)
	assert.Nil(t, p.NextPage)
	assert.Len(t, p.Items, 15)
	assert.Equal(t, 3, p.Pages)
}

func TestPaginate_BeyondLastPage(t *testing.T) {
	p, err := Paginate[int](context.Background(), numbers(10), 100, DefaultOptions())
	require.NoError(t, err)

	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.Pages)
	assert.Equal(t, 10, p.Total)
	assert.False(t, p.HasNext)
}

func TestPaginate_EmptySource(t *testing.T) {
	p, err := Paginate[int](context.Background(), numbers(0), 1, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.Pages)
	assert.Empty(t, p.Items)
}

func TestPaginate_InvalidPage(t *testing.T) {
	for _, page := range []int{0, -1} {
		_, err := Paginate[int](context.Background(), numbers(10), page, DefaultOptions())
		assert.ErrorIs(t, err, ErrInvalidPage)
	}
}

func TestPaginate_Deterministic(t *testing.T) {
	src := numbers(123)
	a, err := Paginate[int](context.Background(), src, 2, DefaultOptions())
	require.NoError(t, err)
	b, err := Paginate[int](context.Background(), src, 2, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

type failingSource struct{ err error }

func (f failingSource) Count(context.Context, int) (int, error)        { return 0, f.err }
func (f failingSource) Fetch(context.Context, int, int) ([]int, error) { return nil, f.err }

func TestPaginate_SourceError(t *testing.T) {
	boom := errors.New("connection lost")

	_, err := Paginate[int](context.Background(), failingSource{boom}, 1, DefaultOptions())
	assert.ErrorIs(t, err, boom)
}

func TestPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 30, 0},
		{1, 30, 1},
		{30, 30, 1},
		{31, 30, 2},
		{500, 30, 17},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Pages(tt.total, tt.size))
	}
}
