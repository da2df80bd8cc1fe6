package pagination

// Meta describes where a page sits in the full result.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta builds metadata for a result of total items paged with p.
func NewMeta(p Params, total int) Meta {
	_, pageSize := p.OffsetLimit()
	if pageSize == 0 {
		pageSize = total
	}

	current := p.Page
	if current == 0 && p.Offset > 0 && pageSize > 0 {
		current = p.Offset/pageSize + 1
	}
	if current == 0 {
		current = 1
	}

	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	return Meta{
		CurrentPage: current,
		PageSize:    pageSize,
		TotalPages:  pages,
		TotalItems:  total,
		HasPrevious: current > 1,
		HasNext:     current < pages,
	}
}
