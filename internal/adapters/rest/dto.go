package rest

import (
	"encoding/json"
	"time"

	"catalog-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// --- ответы ---

type PropertySummaryResponse struct {
	ID              int64        `json:"id"`
	Title           string       `json:"title"`
	City            *string      `json:"city"`
	State           *string      `json:"state"`
	Price           *json.Number `json:"price"`
	Bedrooms        *int         `json:"bedrooms"`
	Bathrooms       *int         `json:"bathrooms"`
	SquareFeet      *int         `json:"squareFeet"`
	PropertyType    string       `json:"propertyType"`
	Status          string       `json:"status"`
	PrimaryImageURL *string      `json:"primaryImageUrl"`
}

type AddressResponse struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zipCode"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Geohash   string   `json:"geohash,omitempty"`
}

type ImageDTO struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

type PropertyDetailsResponse struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Address      *AddressResponse `json:"address"`
	Price        *json.Number     `json:"price"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	SquareFeet   *int             `json:"squareFeet"`
	PropertyType string           `json:"propertyType"`
	Status       string           `json:"status"`
	Amenities    []string         `json:"amenities"`
	Images       []ImageDTO       `json:"images"`
	LandlordID   *int64           `json:"landlordId"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

type PageResponse[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	CurrentPage   int  `json:"currentPage"`
	PageSize      int  `json:"pageSize"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// priceNumber отдает цену числом JSON без потери точности
func priceNumber(d *decimal.Decimal) *json.Number {
	if d == nil {
		return nil
	}
	n := json.Number(d.String())
	return &n
}

func toSummaryResponse(s domain.PropertySummary) PropertySummaryResponse {
	return PropertySummaryResponse{
		ID:              s.ID,
		Title:           s.Title,
		City:            s.City,
		State:           s.State,
		Price:           priceNumber(s.Price),
		Bedrooms:        s.Bedrooms,
		Bathrooms:       s.Bathrooms,
		SquareFeet:      s.SquareFeet,
		PropertyType:    string(s.PropertyType),
		Status:          string(s.Status),
		PrimaryImageURL: s.PrimaryImageURL,
	}
}

func toSummaryResponses(items []domain.PropertySummary) []PropertySummaryResponse {
	out := make([]PropertySummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

func toPageResponse(p domain.Page[domain.PropertySummary]) PageResponse[PropertySummaryResponse] {
	return PageResponse[PropertySummaryResponse]{
		Content:       toSummaryResponses(p.Content),
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		CurrentPage:   p.CurrentPage,
		PageSize:      p.PageSize,
		First:         p.First,
		Last:          p.Last,
	}
}

func toDetailsResponse(d domain.PropertyDetails) PropertyDetailsResponse {
	resp := PropertyDetailsResponse{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		Price:        priceNumber(d.Price),
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		SquareFeet:   d.SquareFeet,
		PropertyType: string(d.PropertyType),
		Status:       string(d.Status),
		Amenities:    d.Amenities,
		Images:       make([]ImageDTO, 0, len(d.Images)),
		LandlordID:   d.LandlordID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	for _, img := range d.Images {
		resp.Images = append(resp.Images, ImageDTO{URL: img.URL, Description: img.Description})
	}
	if a := d.Address; a != nil {
		resp.Address = &AddressResponse{
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			Country:   a.Country,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
			Geohash:   a.Geohash,
		}
	}
	return resp
}

func toStatsResponse(s domain.CatalogStats) StatsResponse {
	resp := StatsResponse{Total: s.Total, ByStatus: make(map[string]int, len(s.ByStatus))}
	for status, n := range s.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	return resp
}

// --- запросы ---

// SearchRequest - тело POST /properties/search
type SearchRequest struct {
	Keyword       string           `json:"keyword"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	MinPrice      *decimal.Decimal `json:"minPrice"`
	MaxPrice      *decimal.Decimal `json:"maxPrice"`
	MinBedrooms   *int             `json:"minBedrooms"`
	MaxBedrooms   *int             `json:"maxBedrooms"`
	MinBathrooms  *int             `json:"minBathrooms"`
	PropertyType  string           `json:"propertyType"`
	Status        string           `json:"status"`
	Amenities     []string         `json:"amenities"`
	MinSquareFeet *int             `json:"minSquareFeet"`
	MaxSquareFeet *int             `json:"maxSquareFeet"`
	GeohashPrefix string           `json:"geohashPrefix"`
	SortBy        string           `json:"sortBy"`
	SortOrder     string           `json:"sortOrder"`
}

type AddressRequest struct {
	Street    string   `json:"street"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zipCode"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PropertyRequest - тело POST/PUT /properties
type PropertyRequest struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Address      *AddressRequest  `json:"address"`
	Price        *decimal.Decimal `json:"price"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	SquareFeet   *int             `json:"squareFeet"`
	PropertyType string           `json:"propertyType"`
	Status       string           `json:"status"`
	Amenities    []string         `json:"amenities"`
	Images       []ImageDTO       `json:"images"`
	LandlordID   *int64           `json:"landlordId"`
	// CreatedAt учитывается только при PUT новой записи под явным ID
	CreatedAt *time.Time `json:"createdAt"`
}
