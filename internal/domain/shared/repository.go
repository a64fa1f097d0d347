package shared

import "strings"

// Filter carries the list-query knobs shared by every repository:
// pagination, ordering and free-text search. Repository-specific
// predicates go into Filters.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// Offset translates Page/PageSize into a SQL offset. Zero when either
// is unset, which repositories treat as "no pagination".
func (f Filter) Offset() int {
	if f.Page <= 0 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// OrderClause renders the ORDER BY expression, falling back to the
// given default when no column was requested. The direction is
// whitelisted to ASC/DESC.
func (f Filter) OrderClause(fallback string) string {
	if f.OrderBy == "" {
		return fallback
	}
	dir := "ASC"
	if strings.EqualFold(f.OrderDir, "desc") {
		dir = "DESC"
	}
	return f.OrderBy + " " + dir
}

// Paginated is one page of a list query plus its position in the full
// result set.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated wraps one page of items with the derived page count.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	pages := 0
	if pageSize > 0 {
		pages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			pages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: pages,
	}
}
