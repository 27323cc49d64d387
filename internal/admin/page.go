package admin

// DefaultPageSize is the number of rows per page in list views.
const DefaultPageSize = 10

// Page is one slice of a client-side paginated list.
type Page[T any] struct {
	Items   []T `json:"items" yaml:"items"`
	Page    int `json:"page" yaml:"page"`
	MaxPage int `json:"max_page" yaml:"max_page"`
	Total   int `json:"total" yaml:"total"`
	// Start and End are the 1-based positions shown, 0 when empty.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Paginate returns page number page of items. The page is clamped to
// [1, max(1, ceil(len/size))]; a non-positive size uses DefaultPageSize.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	maxPage := (total + size - 1) / size
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	start := (page - 1) * size
	end := min(start+size, total)
	p := Page[T]{Items: items[start:end], Page: page, MaxPage: maxPage, Total: total}
	if total > 0 {
		p.Start = start + 1
		p.End = end
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return p
}
