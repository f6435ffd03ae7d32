package repository

// PageRequest is a zero-based page index plus size and an optional sort key.
// Sort keys are resolved against a per-repository whitelist, never interpolated
// raw into SQL.
type PageRequest struct {
	Page int
	Size int
	Sort string
	Desc bool
}

const (
	DefaultPageSize = 10
	maxPageSize     = 100
)

func (p PageRequest) Normalized() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p PageRequest) offset() int {
	return p.Page * p.Size
}

// Page is one page of results with the totals a paged listing response needs.
type Page[T any] struct {
	Content       []T
	TotalElements int64
	TotalPages    int
}

func newPage[T any](content []T, total int64, size int) *Page[T] {
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    pages,
	}
}
