package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"catalog-service/internal/core/domain"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPage     = 0
	defaultSize     = 10
	maxPageSize     = 100
	defaultFeatured = 10
	maxFeatured     = 50
	maxBodyBytes    = 1 << 20
)

// parsePaging читает page (>= 0) и size (1..100)
func parsePaging(q url.Values) (page, size int, err error) {
	page, err = intParam(q, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	if page < 0 {
		return 0, 0, fmt.Errorf("page must be >= 0")
	}
	size, err = intParam(q, "size", defaultSize)
	if err != nil {
		return 0, 0, err
	}
	if size < 1 || size > maxPageSize {
		return 0, 0, fmt.Errorf("size must be between 1 and %d", maxPageSize)
	}
	return page, size, nil
}

func parseSorting(sortBy, sortOrder string) (domain.Sorting, error) {
	key, err := domain.ParseSortKey(sortBy)
	if err != nil {
		return domain.Sorting{}, fmt.Errorf("sortBy must be one of price, createdAt, bedrooms, squareFeet")
	}
	order, err := domain.ParseSortOrder(sortOrder)
	if err != nil {
		return domain.Sorting{}, fmt.Errorf("sortOrder must be asc or desc")
	}
	return domain.Sorting{Key: key, Order: order}, nil
}

func parseLimit(q url.Values) (int, error) {
	limit, err := intParam(q, "limit", defaultFeatured)
	if err != nil {
		return 0, err
	}
	if limit < 1 || limit > maxFeatured {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxFeatured)
	}
	return limit, nil
}

func parsePropertyID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "propertyID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid property ID %q", raw)
	}
	return id, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// decodeJSONBody читает тело с ограничением размера; неизвестные поля - ошибка
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("request body is empty")
		}
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func nonNegative(name string, v *int) error {
	if v != nil && *v < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func (req SearchRequest) toCriteria() (domain.SearchCriteria, error) {
	c := domain.SearchCriteria{
		Keyword:       strings.TrimSpace(req.Keyword),
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		MinBedrooms:   req.MinBedrooms,
		MaxBedrooms:   req.MaxBedrooms,
		MinBathrooms:  req.MinBathrooms,
		Amenities:     req.Amenities,
		MinSquareFeet: req.MinSquareFeet,
		MaxSquareFeet: req.MaxSquareFeet,
		GeohashPrefix: strings.ToLower(strings.TrimSpace(req.GeohashPrefix)),
	}

	for _, p := range []struct {
		name string
		v    *int
	}{
		{"minBedrooms", req.MinBedrooms},
		{"maxBedrooms", req.MaxBedrooms},
		{"minBathrooms", req.MinBathrooms},
		{"minSquareFeet", req.MinSquareFeet},
		{"maxSquareFeet", req.MaxSquareFeet},
	} {
		if err := nonNegative(p.name, p.v); err != nil {
			return c, err
		}
	}
	if req.MinPrice != nil && req.MinPrice.IsNegative() {
		return c, fmt.Errorf("minPrice must be >= 0")
	}
	if req.MaxPrice != nil && req.MaxPrice.IsNegative() {
		return c, fmt.Errorf("maxPrice must be >= 0")
	}
	if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
		return c, fmt.Errorf("minPrice must be <= maxPrice")
	}
	if req.MinSquareFeet != nil && req.MaxSquareFeet != nil && *req.MinSquareFeet > *req.MaxSquareFeet {
		return c, fmt.Errorf("minSquareFeet must be <= maxSquareFeet")
	}
	if req.MinBedrooms != nil && req.MaxBedrooms != nil && *req.MinBedrooms > *req.MaxBedrooms {
		return c, fmt.Errorf("minBedrooms must be <= maxBedrooms")
	}

	if req.PropertyType != "" {
		t, err := domain.ParsePropertyType(req.PropertyType)
		if err != nil {
			return c, err
		}
		c.PropertyType = &t
	}
	if req.Status != "" {
		s, err := domain.ParsePropertyStatus(req.Status)
		if err != nil {
			return c, err
		}
		c.Status = &s
	}
	return c, nil
}

func (req PropertyRequest) toDomain() (domain.Property, error) {
	if strings.TrimSpace(req.Title) == "" {
		return domain.Property{}, fmt.Errorf("title is required")
	}
	propertyType, err := domain.ParsePropertyType(req.PropertyType)
	if err != nil {
		return domain.Property{}, err
	}
	status := domain.PropertyStatusAvailable
	if req.Status != "" {
		if status, err = domain.ParsePropertyStatus(req.Status); err != nil {
			return domain.Property{}, err
		}
	}
	if req.Price != nil && req.Price.IsNegative() {
		return domain.Property{}, fmt.Errorf("price must be >= 0")
	}
	for name, v := range map[string]*int{"bedrooms": req.Bedrooms, "bathrooms": req.Bathrooms, "squareFeet": req.SquareFeet} {
		if err := nonNegative(name, v); err != nil {
			return domain.Property{}, err
		}
	}
	if req.LandlordID != nil && *req.LandlordID < 1 {
		return domain.Property{}, fmt.Errorf("landlordId must be >= 1")
	}

	p := domain.Property{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		PropertyType: propertyType,
		Status:       status,
		Amenities:    req.Amenities,
		LandlordID:   req.LandlordID,
	}
	if req.CreatedAt != nil {
		p.CreatedAt = *req.CreatedAt
	}
	for i, img := range req.Images {
		if strings.TrimSpace(img.URL) == "" {
			return domain.Property{}, fmt.Errorf("images[%d].url is required", i)
		}
		p.Images = append(p.Images, domain.PropertyImage{URL: img.URL, Description: img.Description})
	}
	if a := req.Address; a != nil {
		if (a.Latitude == nil) != (a.Longitude == nil) {
			return domain.Property{}, fmt.Errorf("latitude and longitude must be set together")
		}
		if a.Latitude != nil && (*a.Latitude < -90 || *a.Latitude > 90) {
			return domain.Property{}, fmt.Errorf("latitude must be between -90 and 90")
		}
		if a.Longitude != nil && (*a.Longitude < -180 || *a.Longitude > 180) {
			return domain.Property{}, fmt.Errorf("longitude must be between -180 and 180")
		}
		p.Address = &domain.Address{
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			Country:   a.Country,
			Latitude:  a.Latitude,
			Longitude: a.Longitude,
		}
	}
	return p, nil
}
