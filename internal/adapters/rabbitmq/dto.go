package rabbitmq

import (
	"encoding/json"
	"time"

	"catalog-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// PropertyUpsertDTO - тело события PropertyUpsertEvent
type PropertyUpsertDTO struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	SquareFeet   *int             `json:"squareFeet"`
	PropertyType string           `json:"propertyType"`
	Status       string           `json:"status"`
	Amenities    []string         `json:"amenities"`
	Images       []ImageDTO       `json:"images"`
	Address      *AddressDTO      `json:"address"`
	LandlordID   *int64           `json:"landlordId"`
}

type ImageDTO struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type AddressDTO struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zipCode"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func toDomainProperty(dto PropertyUpsertDTO) (domain.Property, error) {
	propertyType, err := domain.ParsePropertyType(dto.PropertyType)
	if err != nil {
		return domain.Property{}, err
	}
	status, err := domain.ParsePropertyStatus(dto.Status)
	if err != nil {
		return domain.Property{}, err
	}

	p := domain.Property{
		ID:           dto.ID,
		Title:        dto.Title,
		Description:  dto.Description,
		Price:        dto.Price,
		Bedrooms:     dto.Bedrooms,
		Bathrooms:    dto.Bathrooms,
		SquareFeet:   dto.SquareFeet,
		PropertyType: propertyType,
		Status:       status,
		Amenities:    dto.Amenities,
		LandlordID:   dto.LandlordID,
	}
	for _, img := range dto.Images {
		p.Images = append(p.Images, domain.PropertyImage{URL: img.URL, Description: img.Description})
	}
	if dto.Address != nil {
		p.Address = &domain.Address{
			Street:    dto.Address.Street,
			City:      dto.Address.City,
			State:     dto.Address.State,
			ZipCode:   dto.Address.ZipCode,
			Country:   dto.Address.Country,
			Latitude:  dto.Address.Latitude,
			Longitude: dto.Address.Longitude,
		}
	}
	return p, nil
}

// PropertySavedDTO - тело события PropertySavedEvent
type PropertySavedDTO struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	City         *string      `json:"city,omitempty"`
	State        *string      `json:"state,omitempty"`
	Geohash      string       `json:"geohash,omitempty"`
	Price        *json.Number `json:"price,omitempty"`
	PropertyType string       `json:"propertyType"`
	Status       string       `json:"status"`
	CreatedAt    string       `json:"createdAt"`
	UpdatedAt    string       `json:"updatedAt"`
}

func toPropertySavedDTO(d domain.PropertyDetails) PropertySavedDTO {
	dto := PropertySavedDTO{
		ID:           d.ID,
		Title:        d.Title,
		PropertyType: string(d.PropertyType),
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    d.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if d.Address != nil {
		city, state := d.Address.City, d.Address.State
		dto.City = &city
		dto.State = &state
		dto.Geohash = d.Address.Geohash
	}
	if d.Price != nil {
		n := json.Number(d.Price.String())
		dto.Price = &n
	}
	return dto
}
