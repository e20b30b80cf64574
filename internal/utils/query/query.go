package query

import (
	"strconv"

	"github.com/stockpulse/stockinfo-backend/internal/view"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Pagination is a validated page request.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination validates the page and page_size query values. Empty values
// take defaults; malformed or out-of-range values produce field errors.
func ParsePagination(pageStr, sizeStr string) (Pagination, []view.FieldError) {
	p := Pagination{Page: 1, PageSize: DefaultPageSize}
	var fields []view.FieldError

	if pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			fields = append(fields, view.FieldError{Field: "page", Message: "must be a positive integer"})
		} else {
			p.Page = page
		}
	}

	if sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil || size < 1 {
			fields = append(fields, view.FieldError{Field: "page_size", Message: "must be a positive integer"})
		} else if size > MaxPageSize {
			fields = append(fields, view.FieldError{Field: "page_size", Message: "must be at most " + strconv.Itoa(MaxPageSize)})
		} else {
			p.PageSize = size
		}
	}

	return p, fields
}

// Window slices items down to the requested page and reports the pagination
// applied. A page past the end yields an empty slice, not an error.
func Window[T any](items []T, p Pagination) ([]T, *view.Pagination) {
	total := len(items)
	pagination := &view.Pagination{Page: p.Page, PageSize: p.PageSize, Total: total}

	start := (p.Page - 1) * p.PageSize
	if start >= total {
		return []T{}, pagination
	}

	end := start + p.PageSize
	if end > total {
		end = total
	}
	return items[start:end], pagination
}

// ParseEpochMilli parses an optional epoch-millisecond query value.
func ParseEpochMilli(s string) (int64, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
