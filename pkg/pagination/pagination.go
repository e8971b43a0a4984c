// Package pagination computes offset page windows and page-selector controls
// for list screens that slice an in-memory collection.
package pagination

import (
	"strconv"
	"strings"
)

const (
	DefaultPageSize   = 10
	DefaultMaxVisible = 5
	MaxPageSize       = 200
)

// Window is the slice bounds and page-count metadata for one render.
type Window struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`

	// StartIndex and EndIndex bound the visible rows as [StartIndex, EndIndex).
	StartIndex int `json:"-"`
	EndIndex   int `json:"-"`

	ShowingFrom int  `json:"showing_from"`
	ShowingTo   int  `json:"showing_to"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// Len is the number of visible rows.
func (w Window) Len() int {
	return w.EndIndex - w.StartIndex
}

// ComputeWindow clamps currentPage into [1, max(totalPages, 1)] and derives
// the visible slice. It never fails: negative totals become 0 and page sizes
// below 1 become 1.
func ComputeWindow(currentPage, totalItems, pageSize int) Window {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}

	totalPages := (totalItems + pageSize - 1) / pageSize
	currentPage = clamp(currentPage, 1, max(totalPages, 1))

	start := (currentPage - 1) * pageSize
	end := min(currentPage*pageSize, totalItems)
	if start > end {
		start = end
	}

	w := Window{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		StartIndex:  start,
		EndIndex:    end,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
	if end > start {
		w.ShowingFrom = start + 1
		w.ShowingTo = end
	}
	return w
}

// Slice returns the rows of items that fall inside w.
func Slice[T any](items []T, w Window) []T {
	start := clamp(w.StartIndex, 0, len(items))
	end := clamp(w.EndIndex, start, len(items))
	return items[start:end]
}

// Request is a normalized page request parsed from query parameters.
type Request struct {
	Page     int
	PageSize int
}

// ParseRequest reads page and page size from raw query values. Values that
// are missing or not numbers fall back to page 1 and defaultSize.
func ParseRequest(page, pageSize string, defaultSize int) Request {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	req := Request{Page: 1, PageSize: defaultSize}
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(pageSize)); err == nil && n > 0 {
		req.PageSize = min(n, MaxPageSize)
	}
	return req
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
