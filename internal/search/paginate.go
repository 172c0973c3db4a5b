package search

import "github.com/Dotunbey/feedback-os/internal/contacts"

// Page size bounds for every paginated listing.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// PageRequest is a validated 1-based page selection.
type PageRequest struct {
	Page     int
	PageSize int
}

// Validate rejects out-of-bounds values before any query is compiled. A zero
// PageSize is filled with the default; everything else must be in range.
func (p *PageRequest) Validate() error {
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		return contacts.Validationf("page must be >= 1, got %d", p.Page)
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return contacts.Validationf("page_size must be in 1..%d, got %d", MaxPageSize, p.PageSize)
	}
	return nil
}

// Range is a closed index range [From, To] into the result set ordered by
// the store.
type Range struct {
	From int
	To   int
}

// Range computes the row window for this page.
func (p PageRequest) Range() Range {
	from := (p.Page - 1) * p.PageSize
	return Range{From: from, To: from + p.PageSize - 1}
}

// TotalPages computes the page count for an exact total. Zero rows means
// zero pages, not one.
func (p PageRequest) TotalPages(totalCount int) int {
	if totalCount <= 0 {
		return 0
	}
	return (totalCount + p.PageSize - 1) / p.PageSize
}

// Envelope assembles the response envelope for one fetched page. Pages past
// the end of the result set carry an empty data slice and correct totals.
func Envelope[T any](p PageRequest, data []T, totalCount int) contacts.Page[T] {
	if data == nil {
		data = []T{}
	}
	return contacts.Page[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages(totalCount),
	}
}
