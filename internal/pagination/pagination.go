// Package pagination implements the 1-indexed page/limit contract shared by
// every list endpoint.
package pagination

// DefaultLimit and MaxLimit bound the page size for all list endpoints.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params are normalized paging inputs.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps raw page/limit inputs: pages are 1-indexed, limits fall
// back to DefaultLimit and are capped at MaxLimit.
func Normalize(page, limit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block of the list envelope.
type Meta struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// NewMeta computes envelope metadata. An empty result set has zero pages;
// any non-empty set has at least one.
func NewMeta(totalItems int64, p Params) Meta {
	totalPages := 0
	if totalItems > 0 {
		totalPages = int((totalItems + int64(p.Limit) - 1) / int64(p.Limit))
		if totalPages < 1 {
			totalPages = 1
		}
	}
	return Meta{
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		CurrentPage:  p.Page,
		ItemsPerPage: p.Limit,
	}
}

// Envelope is the response shape for all list endpoints.
type Envelope struct {
	Result     interface{} `json:"result"`
	Pagination Meta        `json:"pagination"`
}

// Wrap builds the list envelope around a result slice.
func Wrap(result interface{}, totalItems int64, p Params) Envelope {
	return Envelope{Result: result, Pagination: NewMeta(totalItems, p)}
}
