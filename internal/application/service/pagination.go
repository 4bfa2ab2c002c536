package service

// Pagination selects one page of a larger result set.
type Pagination struct {
	Page     int
	PageSize int
}

// PaginationResult is one page of items plus the size of the whole result
// set. TotalCount covers every item in the requested range, not just the
// ones fetched for this page.
type PaginationResult[T any] struct {
	Page       int
	PageSize   int
	TotalCount int
	Items      []T
}

// TotalPages returns the number of pages the full result set spans.
func (p *PaginationResult[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}
