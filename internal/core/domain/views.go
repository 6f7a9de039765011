package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertySummary - краткое представление для списков
type PropertySummary struct {
	ID              int64
	Title           string
	City            *string
	State           *string
	Price           *decimal.Decimal
	Bedrooms        *int
	Bathrooms       *int
	SquareFeet      *int
	PropertyType    PropertyType
	Status          PropertyStatus
	PrimaryImageURL *string
}

// AddressView - адрес с вычисленным геохешем (если есть координаты)
type AddressView struct {
	Address
	Geohash string
}

// PropertyDetails - полное представление для страницы объекта
type PropertyDetails struct {
	ID           int64
	Title        string
	Description  string
	Address      *AddressView
	Price        *decimal.Decimal
	Bedrooms     *int
	Bathrooms    *int
	SquareFeet   *int
	PropertyType PropertyType
	Status       PropertyStatus
	Amenities    []string
	Images       []PropertyImage
	LandlordID   *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Page - одна страница упорядоченной выборки
type Page[T any] struct {
	Content       []T
	TotalElements int
	TotalPages    int
	CurrentPage   int
	PageSize      int
	First         bool
	Last          bool
}

// CatalogStats - сводка по каталогу
type CatalogStats struct {
	Total    int
	ByStatus map[PropertyStatus]int
}
