package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PropertyType - тип объекта недвижимости
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeHouse     PropertyType = "HOUSE"
	PropertyTypeCondo     PropertyType = "CONDO"
	PropertyTypeTownhouse PropertyType = "TOWNHOUSE"
	PropertyTypeStudio    PropertyType = "STUDIO"
	PropertyTypeVilla     PropertyType = "VILLA"
)

var propertyTypes = []PropertyType{
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeCondo,
	PropertyTypeTownhouse,
	PropertyTypeStudio,
	PropertyTypeVilla,
}

// ParsePropertyType разбирает имя типа без учета регистра
func ParsePropertyType(s string) (PropertyType, error) {
	for _, t := range propertyTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPropertyType, s)
}

// PropertyStatus - статус объявления
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "AVAILABLE"
	PropertyStatusRented      PropertyStatus = "RENTED"
	PropertyStatusPending     PropertyStatus = "PENDING"
	PropertyStatusMaintenance PropertyStatus = "MAINTENANCE"
	PropertyStatusInactive    PropertyStatus = "INACTIVE"
)

var propertyStatuses = []PropertyStatus{
	PropertyStatusAvailable,
	PropertyStatusRented,
	PropertyStatusPending,
	PropertyStatusMaintenance,
	PropertyStatusInactive,
}

func ParsePropertyStatus(s string) (PropertyStatus, error) {
	for _, st := range propertyStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPropertyStatus, s)
}

// PropertyStatuses возвращает все известные статусы в фиксированном порядке
func PropertyStatuses() []PropertyStatus {
	out := make([]PropertyStatus, len(propertyStatuses))
	copy(out, propertyStatuses)
	return out
}

type PropertyImage struct {
	URL         string
	Description string
}

type Address struct {
	Street    string
	City      string
	State     string
	ZipCode   string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// HasCoordinates - заданы ли обе координаты
func (a *Address) HasCoordinates() bool {
	return a != nil && a.Latitude != nil && a.Longitude != nil
}

// Property - объявление об аренде. ID == 0 означает, что запись еще не сохранена.
// Необязательные числовые поля - указатели: nil значит "неизвестно".
type Property struct {
	ID           int64
	Title        string
	Description  string
	Address      *Address
	Price        *decimal.Decimal
	Bedrooms     *int
	Bathrooms    *int
	SquareFeet   *int
	PropertyType PropertyType
	Status       PropertyStatus
	Amenities    []string
	Images       []PropertyImage
	LandlordID   *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNew - запись без ID
func (p *Property) IsNew() bool {
	return p.ID == 0
}

// Clone возвращает глубокую копию, не разделяющую память с оригиналом
func (p Property) Clone() Property {
	out := p
	if p.Address != nil {
		addr := *p.Address
		addr.Latitude = clonePtr(p.Address.Latitude)
		addr.Longitude = clonePtr(p.Address.Longitude)
		out.Address = &addr
	}
	out.Price = clonePtr(p.Price)
	out.Bedrooms = clonePtr(p.Bedrooms)
	out.Bathrooms = clonePtr(p.Bathrooms)
	out.SquareFeet = clonePtr(p.SquareFeet)
	out.LandlordID = clonePtr(p.LandlordID)
	if p.Amenities != nil {
		out.Amenities = append([]string(nil), p.Amenities...)
	}
	if p.Images != nil {
		out.Images = append([]PropertyImage(nil), p.Images...)
	}
	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
