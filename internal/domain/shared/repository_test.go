package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastPage(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		perPage int
		want    int
	}{
		{"empty result still has one page", 0, 10, 1},
		{"exact multiple", 20, 10, 2},
		{"partial last page", 21, 10, 3},
		{"fewer than a page", 3, 10, 1},
		{"non-positive page size falls back", 25, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LastPage(tt.total, tt.perPage))
		})
	}
}

func TestNewPaginated(t *testing.T) {
	t.Run("page past the end keeps total and returns empty items", func(t *testing.T) {
		page := NewPaginated[string](nil, 15, 9, FixedPageSize)

		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(15), page.Total)
		assert.Equal(t, 9, page.CurrentPage)
		assert.Equal(t, 2, page.LastPage)
		assert.Equal(t, 10, page.PerPage)
	})

	t.Run("huge page is capped", func(t *testing.T) {
		page := NewPaginated[string](nil, 3, 1000000000000000001, FixedPageSize)
		assert.Equal(t, MaxPage, page.CurrentPage)
		assert.Equal(t, int64(3), page.Total)
	})

	t.Run("page below one is clamped", func(t *testing.T) {
		page := NewPaginated([]int{1}, 1, -3, FixedPageSize)
		assert.Equal(t, 1, page.CurrentPage)
	})
}

func TestFilter_OffsetAndLimit(t *testing.T) {
	f := Filter{Page: 3}
	assert.Equal(t, 10, f.Limit())
	assert.Equal(t, 20, f.Offset())

	f = Filter{Page: 0, PageSize: 50}
	assert.Equal(t, 50, f.Limit())
	assert.Equal(t, 0, f.Offset())

	// a page number whose offset would overflow still lands past the end
	f = Filter{Page: 1000000000000000001}
	assert.Equal(t, (MaxPage-1)*FixedPageSize, f.Offset())
	assert.Positive(t, f.Offset())
}

func TestValidationError(t *testing.T) {
	var v ValidationError
	assert.NoError(t, v.OrNil())

	v.Add("revenue_min", "must not exceed revenue_max")
	v.Add("email", "is invalid")

	err := v.OrNil()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "revenue_min: must not exceed revenue_max")
	assert.Len(t, v.Fields, 2)
}

func TestRetryOnConflict(t *testing.T) {
	t.Run("stops at the first non-conflict result", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(3, func() error {
			calls++
			if calls == 1 {
				return ErrAlreadyExists
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("other errors are returned at once", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(3, func() error {
			calls++
			return ErrNotFound
		})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("conflict after the last attempt", func(t *testing.T) {
		calls := 0
		err := RetryOnConflict(CodeAllocationAttempts, func() error {
			calls++
			return ErrAlreadyExists
		})
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, CodeAllocationAttempts, calls)
	})
}
