package query

import "catalog-service/internal/core/domain"

// Paginate вырезает страницу [page*size, min(page*size+size, len)).
// Страница за пределами данных - пустой результат, а не ошибка.
func Paginate[T any](items []T, page, size int) domain.Page[T] {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}

	total := len(items)
	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	// пустота определяется до умножения: page < totalPages <= total, поэтому page*size не переполняется
	content := make([]T, 0)
	if page < totalPages {
		start := page * size
		end := min(start+size, total)
		content = append(content, items[start:end]...)
	}

	return domain.Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   page,
		PageSize:      size,
		First:         page == 0,
		Last:          totalPages == 0 || page >= totalPages-1,
	}
}

// MapPage переносит метаданные страницы, преобразуя только ее содержимое
func MapPage[T, R any](p domain.Page[T], fn func(T) R) domain.Page[R] {
	content := make([]R, len(p.Content))
	for i, item := range p.Content {
		content[i] = fn(item)
	}
	return domain.Page[R]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		CurrentPage:   p.CurrentPage,
		PageSize:      p.PageSize,
		First:         p.First,
		Last:          p.Last,
	}
}
