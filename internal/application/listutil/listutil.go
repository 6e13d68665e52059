package listutil

import (
	"net/url"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
// Zero PerPage means "everything on one page".
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// PageInfo carries pagination metadata returned alongside a page.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// ParsePageParams extracts page and per_page from URL query values.
// An absent or unsupported per_page disables paging.
// PRE: none
// POST: Page >= 1; PerPage is 0 or one of PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = 0
	}
	return PageParams{Page: page, PerPage: perPage}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(p PageParams, total int) PageInfo {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = max(total, 1)
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page := min(max(p.Page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
// PRE: PageInfo is valid
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Slice returns the rows of items that fall on page p.
// PRE: p was built from len(items)
// POST: Returns a sub-slice of items, never nil
func Slice[T any](items []T, p PageInfo) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.PerPage, len(items))
	if items == nil {
		return []T{}
	}
	return items[start:end]
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
