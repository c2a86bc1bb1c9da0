package query

import "github.com/jwalitptl/medspa-api/internal/model"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// NormalizeLimit clamps a requested page size into [1, MaxLimit], defaulting to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Paginate returns the page following the item whose id equals cursor.
// An empty or unknown cursor starts from the beginning.
func Paginate[T any](items []T, cursor string, limit int, idOf func(T) string) model.Page[T] {
	limit = NormalizeLimit(limit)

	start := 0
	if cursor != "" {
		for i, item := range items {
			if idOf(item) == cursor {
				start = i + 1
				break
			}
		}
	}

	end := min(start+limit, len(items))
	data := make([]T, 0, end-start)
	data = append(data, items[start:end]...)

	page := model.Page[T]{
		Data:    data,
		HasMore: end < len(items),
		Total:   len(items),
	}
	if page.HasMore && len(data) > 0 {
		next := idOf(data[len(data)-1])
		page.NextCursor = &next
	}
	return page
}
