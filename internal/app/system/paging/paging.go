// internal/app/system/paging/paging.go
//
// Offset pagination for list endpoints. Task and project lists are small
// enough that skip/limit with a total count is the right trade-off here.
package paging

import (
	"net/http"
	"strconv"
)

// Defaults applied when the query carries no usable values.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// MaxLimit caps the page size so a single request cannot drag an entire
// collection across the wire.
const MaxLimit = 100

// Page holds parsed pagination parameters.
type Page struct {
	Page  int
	Limit int
}

// Skip returns the number of documents to skip for this page.
func (p Page) Skip() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// Parse reads page/limit from the request query. Missing, non-numeric, or
// non-positive values are coerced to the defaults, never propagated.
func Parse(r *http.Request) Page {
	return Page{
		Page:  intParam(r, "page", DefaultPage),
		Limit: min(intParam(r, "limit", DefaultLimit), MaxLimit),
	}
}

func intParam(r *http.Request, key string, fallback int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// TotalPages returns ceil(total/limit); zero items mean zero pages.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
