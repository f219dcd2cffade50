// Package listutil parses list query parameters and computes page metadata for JSON list endpoints.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// ListParams carries the page and search parameters of a list request.
type ListParams struct {
	Page    int    // 1-indexed page number
	PerPage int    // rows per page
	Search  string // free-text search, trimmed
}

// PageInfo is the pagination block of a list response.
type PageInfo struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// DefaultPerPage covers a whole youth group on one page.
const DefaultPerPage = 100

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{20, 50, 100, 500}

// ParseListParams extracts page, per_page and q from URL query values.
// PRE: none
// POST: Page >= 1 and PerPage is one of PerPageOptions
func ParseListParams(q url.Values) ListParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return ListParams{Page: page, PerPage: perPage, Search: strings.TrimSpace(q.Get("q"))}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: TotalPages >= 1; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// Offset returns the row offset of the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
