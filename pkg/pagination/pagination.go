// Package pagination normalizes page/size/sort query parameters and carries
// the pagination arithmetic shared by all entity queries.
package pagination

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// DefaultPageSize is used when the caller omits the page size or sends
	// a non-positive one.
	DefaultPageSize = 20
	// MaxPageSize is the upper bound enforced by request validation above
	// this layer. Exported so validators and tests share the constant;
	// Normalize deliberately does not clamp to it.
	MaxPageSize = 100

	// DefaultSortField is the fallback when the requested sort field is not
	// in the entity's allow-list.
	DefaultSortField = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params holds the raw pagination and sort tuple of a query.
type Params struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("pageSize"))
	return Params{
		Page:      page,
		PageSize:  size,
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	}
}

// Normalize applies the defaulting rules against an entity's sortable-field
// allow-list: page < 1 becomes 1, page size < 1 becomes DefaultPageSize, an
// unrecognized sort field silently falls back to DefaultSortField, and any
// direction other than asc/desc (case-insensitive) becomes desc.
func (p Params) Normalize(sortable map[string]string) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if _, ok := sortable[p.SortBy]; !ok {
		p.SortBy = DefaultSortField
	}
	switch strings.ToLower(p.SortOrder) {
	case SortAsc:
		p.SortOrder = SortAsc
	default:
		p.SortOrder = SortDesc
	}
	return p
}

// Offset returns the number of records to skip for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages computes the page count for a record total:
// floor(total/pageSize) plus one when a remainder exists.
func TotalPages(totalRecords int64, pageSize int) int64 {
	pages := totalRecords / int64(pageSize)
	if totalRecords%int64(pageSize) > 0 {
		pages++
	}
	return pages
}

// Detail reports the effective pagination and sort back to the caller.
// Domain packages embed it in their query-detail envelopes alongside the
// echoed filter values.
type Detail struct {
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	TotalRecords int64  `json:"totalRecords"`
	TotalPages   int64  `json:"totalPages"`
	SortBy       string `json:"sortBy"`
	SortOrder    string `json:"sortOrder"`
}

// NewDetail builds the detail envelope for normalized params and a count.
func NewDetail(p Params, totalRecords int64) Detail {
	return Detail{
		Page:         p.Page,
		PageSize:     p.PageSize,
		TotalRecords: totalRecords,
		TotalPages:   TotalPages(totalRecords, p.PageSize),
		SortBy:       p.SortBy,
		SortOrder:    p.SortOrder,
	}
}
