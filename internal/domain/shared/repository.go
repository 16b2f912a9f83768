package shared

import "math"

// FixedPageSize is the page size of every paginated index
const FixedPageSize = 10

// MaxPage is the highest page number a listing accepts
const MaxPage = math.MaxInt32

// Filter represents generic list options for simple lookups
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: FixedPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// NormalizePage clamps a requested page number into [1, MaxPage]
func NormalizePage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset returns the row offset for the filter's page
func (f Filter) Offset() int {
	return (NormalizePage(f.Page) - 1) * f.Limit()
}

// Limit returns the page size, falling back to FixedPageSize
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return FixedPageSize
	}
	return f.PageSize
}

// Paginated represents one page of a result set
type Paginated[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

// NewPaginated creates a page. Items is never nil so a page past the end
// serializes as an empty array.
func NewPaginated[T any](items []T, total int64, page, perPage int) Paginated[T] {
	if items == nil {
		items = make([]T, 0)
	}
	if perPage <= 0 {
		perPage = FixedPageSize
	}
	return Paginated[T]{
		Items:       items,
		Total:       total,
		CurrentPage: NormalizePage(page),
		PerPage:     perPage,
		LastPage:    LastPage(total, perPage),
	}
}

// LastPage returns max(1, ceil(total/perPage))
func LastPage(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = FixedPageSize
	}
	last := int(total) / perPage
	if int(total)%perPage > 0 {
		last++
	}
	if last < 1 {
		return 1
	}
	return last
}
