package listing

const PageSize = 12

// Paginate returns items [(page-1)*size, page*size). Out of range pages give an empty slice.
func Paginate[T any](items []T, page int, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func TotalPages(length int, size int) int {
	if length <= 0 || size < 1 {
		return 0
	}
	return (length + size - 1) / size
}

// ClampPage maps anything outside [1, totalPages] to 1.
func ClampPage(page int, totalPages int) int {
	if page < 1 || page > totalPages {
		return 1
	}
	return page
}

// PageWindow lists at most width page numbers around current, shifted to stay inside [1, total].
func PageWindow(current int, total int, width int) []int {
	if total < 1 || width < 1 {
		return []int{}
	}
	start := current - width/2
	if start < 1 {
		start = 1
	}
	end := start + width - 1
	if end > total {
		end = total
	}
	if end-start+1 < width {
		start = end - width + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for page := start; page <= end; page++ {
		pages = append(pages, page)
	}
	return pages
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalItems int   `json:"totalItems"`
	Window     []int `json:"window"`
}

const windowWidth = 5

func BuildPage[T any](items []T, requestedPage int) Page[T] {
	totalPages := TotalPages(len(items), PageSize)
	page := ClampPage(requestedPage, totalPages)
	return Page[T]{
		Items:      Paginate(items, page, PageSize),
		Page:       page,
		TotalPages: totalPages,
		TotalItems: len(items),
		Window:     PageWindow(page, totalPages, windowWidth),
	}
}
