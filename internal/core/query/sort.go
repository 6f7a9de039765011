package query

import (
	"cmp"
	"slices"
	"time"

	"catalog-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Sort упорядочивает записи на месте стабильной сортировкой.
// Отсутствующие значения всегда идут последними, независимо от направления.
func Sort(records []domain.Property, sorting domain.Sorting) {
	slices.SortStableFunc(records, Comparator(sorting))
}

// Comparator выбирает функцию сравнения по ключу сортировки.
// Неизвестный ключ трактуется как createdAt, неизвестное направление - как desc.
func Comparator(sorting domain.Sorting) func(a, b domain.Property) int {
	desc := sorting.Order != domain.SortAsc

	switch sorting.Key {
	case domain.SortByPrice:
		return func(a, b domain.Property) int {
			return compareOptional(a.Price, b.Price, decimal.Decimal.Cmp, desc)
		}
	case domain.SortByBedrooms:
		return func(a, b domain.Property) int {
			return compareOptional(a.Bedrooms, b.Bedrooms, cmp.Compare[int], desc)
		}
	case domain.SortBySquareFeet:
		return func(a, b domain.Property) int {
			return compareOptional(a.SquareFeet, b.SquareFeet, cmp.Compare[int], desc)
		}
	default:
		return func(a, b domain.Property) int {
			return compareOptional(timeOrNil(a.CreatedAt), timeOrNil(b.CreatedAt), time.Time.Compare, desc)
		}
	}
}

// compareOptional: nil всегда больше любого значения; desc меняет знак только для двух непустых значений
func compareOptional[T any](a, b *T, compare func(T, T) int, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := compare(*a, *b)
	if desc {
		return -c
	}
	return c
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
