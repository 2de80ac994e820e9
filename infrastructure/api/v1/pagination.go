package v1

import (
	"net/http"
	"strconv"
)

// PaginationParams holds pagination parameters parsed from query strings.
type PaginationParams struct {
	limit  int
	offset int
}

// DefaultPageSize is the default number of items per page.
const DefaultPageSize = 50

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 500

// NewPaginationParams creates pagination params with defaults.
func NewPaginationParams() PaginationParams {
	return PaginationParams{limit: DefaultPageSize}
}

// ParsePagination parses limit and offset query parameters.
// Default: limit=50, offset=0. Max limit: 500.
func ParsePagination(r *http.Request) PaginationParams {
	params := NewPaginationParams()

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 1 {
			params.limit = limit
			if params.limit > MaxPageSize {
				params.limit = MaxPageSize
			}
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.offset = offset
		}
	}

	return params
}

// Limit returns the limit for database queries.
func (p PaginationParams) Limit() int { return p.limit }

// Offset returns the offset for database queries.
func (p PaginationParams) Offset() int { return p.offset }
