// Package query holds pagination and sorting primitives shared by the
// resume-history and company-search read paths.
package query

import (
	"fmt"
	"strings"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ErrUnknownSortField is wrapped by ParseSort for unsupported fields.
var ErrUnknownSortField = fmt.Errorf("unsupported sort field")

// Page is a normalized 1-indexed page request.
type Page struct {
	Number int
	Size   int
}

// NormalizePage clamps raw page inputs to valid values.
func NormalizePage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset returns the zero-based item offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Pagination describes the result window relative to the full match set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Paginate computes pagination metadata for a total match count.
func Paginate(p Page, totalItems int) Pagination {
	if totalItems < 0 {
		totalItems = 0
	}
	totalPages := (totalItems + p.Size - 1) / p.Size
	return Pagination{
		CurrentPage: p.Number,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		HasNextPage: p.Number < totalPages,
		HasPrevPage: p.Number > 1 && totalPages > 0,
	}
}

// Sort is a validated sort selection.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort validates field against an allow-list and resolves the order.
// Unknown fields are an error, never silently ignored.
func ParseSort(field, order, defaultField string, defaultDesc bool, allowed []string) (Sort, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		field = defaultField
	}
	found := false
	for _, a := range allowed {
		if a == field {
			found = true
			break
		}
	}
	if !found {
		return Sort{}, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}

	desc := defaultDesc
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
	case "asc":
		desc = false
	case "desc":
		desc = true
	default:
		return Sort{}, fmt.Errorf("%w: order %q", ErrUnknownSortField, order)
	}

	return Sort{Field: field, Desc: desc}, nil
}
