package usecase

import (
	"catalog-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// точность ~5x5 метров
const geohashPrecision = 9

// ToSummary проецирует объявление в краткое представление для списков
func ToSummary(p domain.Property) domain.PropertySummary {
	s := domain.PropertySummary{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		PropertyType: p.PropertyType,
		Status:       p.Status,
	}
	if p.Address != nil {
		city, state := p.Address.City, p.Address.State
		s.City = &city
		s.State = &state
	}
	if len(p.Images) > 0 {
		url := p.Images[0].URL
		s.PrimaryImageURL = &url
	}
	return s
}

// ToDetails проецирует объявление в полное представление
func ToDetails(p domain.Property) domain.PropertyDetails {
	d := domain.PropertyDetails{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		PropertyType: p.PropertyType,
		Status:       p.Status,
		Amenities:    p.Amenities,
		Images:       p.Images,
		LandlordID:   p.LandlordID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if d.Amenities == nil {
		d.Amenities = []string{}
	}
	if d.Images == nil {
		d.Images = []domain.PropertyImage{}
	}
	if p.Address != nil {
		view := &domain.AddressView{Address: *p.Address}
		if p.Address.HasCoordinates() {
			view.Geohash = geohash.EncodeWithPrecision(*p.Address.Latitude, *p.Address.Longitude, geohashPrecision)
		}
		d.Address = view
	}
	return d
}
