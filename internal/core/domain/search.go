package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SearchCriteria - все возможные фильтры поиска. Пустое поле означает отсутствие ограничения.
type SearchCriteria struct {
	Keyword       string
	City          string
	State         string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	MinBedrooms   *int
	MaxBedrooms   *int
	MinBathrooms  *int
	PropertyType  *PropertyType
	Status        *PropertyStatus
	Amenities     []string
	MinSquareFeet *int
	MaxSquareFeet *int
	GeohashPrefix string
}

// SortKey - поле сортировки
type SortKey string

const (
	SortByPrice      SortKey = "price"
	SortByCreatedAt  SortKey = "createdAt"
	SortByBedrooms   SortKey = "bedrooms"
	SortBySquareFeet SortKey = "squareFeet"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByCreatedAt, nil
	case SortByPrice, SortByCreatedAt, SortByBedrooms, SortBySquareFeet:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder принимает asc/desc в любом регистре
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "":
		return SortDesc, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortOrder, s)
}

// Sorting - ключ и направление сортировки
type Sorting struct {
	Key   SortKey
	Order SortOrder
}

// DefaultSorting - сначала новые
func DefaultSorting() Sorting {
	return Sorting{Key: SortByCreatedAt, Order: SortDesc}
}
