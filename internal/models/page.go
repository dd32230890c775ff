package models

// DefaultPageSize is used when page params are absent or out of range.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// PageParams selects one page of a listing. Pages are 1-based.
type PageParams struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Normalize clamps params to sane values.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// Page is the envelope returned by paginated listings.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPage builds the envelope, deriving the page count from total and size.
func NewPage[T any](items []T, total int64, params PageParams) *Page[T] {
	pages := int(total) / params.Size
	if int(total)%params.Size != 0 {
		pages++
	}
	return &Page[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Pages: pages,
	}
}
