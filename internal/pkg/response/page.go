package response

// PageResponse wraps the list endpoints (resources, reservations, users) in
// one paging envelope. Total is the unfiltered match count, so clients can
// derive the page count from it and PageSize.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse builds a page envelope around items.
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// An empty page must serialize as [], not null.
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
