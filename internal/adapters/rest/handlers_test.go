package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-service/internal/adapters/memory"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	store   *memory.PropertyStore
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	// каждое обращение к часам сдвигает время на минуту
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
	store := memory.NewPropertyStore(memory.WithClock(clock))

	propertyHandlers := NewPropertyHandler(
		usecase.NewListPropertiesUseCase(store, nil),
		usecase.NewGetPropertyUseCase(store),
		usecase.NewSearchPropertiesUseCase(store, nil),
		usecase.NewFeaturedPropertiesUseCase(store),
	)
	adminHandlers := NewAdminHandler(
		usecase.NewSavePropertyUseCase(store, nil),
		usecase.NewDeletePropertyUseCase(store),
		usecase.NewCatalogStatsUseCase(store),
	)

	return &testAPI{
		store:   store,
		handler: NewRouter(propertyHandlers, adminHandlers, []string{"*"}, contextkeys.NoopLogger()),
	}
}

func ptr[T any](v T) *T { return &v }

func (a *testAPI) seed(t *testing.T) {
	t.Helper()
	listings := []domain.Property{
		{
			Title: "Modern Downtown Loft", Description: "Stunning city views",
			Price: ptr(decimal.RequireFromString("2800.00")), Bedrooms: ptr(2), Bathrooms: ptr(2), SquareFeet: ptr(1200),
			PropertyType: domain.PropertyTypeApartment, Status: domain.PropertyStatusAvailable,
			Address:   &domain.Address{City: "Austin", State: "TX", Latitude: ptr(30.2672), Longitude: ptr(-97.7431)},
			Amenities: []string{"Gym", "Parking"},
			Images:    []domain.PropertyImage{{URL: "https://example.com/apt1_1.jpg"}},
		},
		{
			Title: "Spacious Family House", Description: "Big yard",
			Price: ptr(decimal.RequireFromString("550000.00")), Bedrooms: ptr(4), Bathrooms: ptr(3), SquareFeet: ptr(2500),
			PropertyType: domain.PropertyTypeHouse, Status: domain.PropertyStatusAvailable,
			Address: &domain.Address{City: "Seattle", State: "WA"},
		},
		{
			Title: "Cozy Condo near the Beach", Description: "Close to the beach",
			Price: ptr(decimal.RequireFromString("3500.00")), Bedrooms: ptr(1), Bathrooms: ptr(1), SquareFeet: ptr(750),
			PropertyType: domain.PropertyTypeCondo, Status: domain.PropertyStatusRented,
			Address: &domain.Address{City: "Miami", State: "FL"},
		},
	}
	for _, p := range listings {
		_, err := a.store.Save(context.Background(), p)
		require.NoError(t, err)
	}
}

func (a *testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func ids(items []PropertySummaryResponse) []int64 {
	out := make([]int64, 0, len(items))
	for _, s := range items {
		out = append(out, s.ID)
	}
	return out
}

func TestListProperties_EmptyCatalog(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/properties?page=0&size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[PageResponse[PropertySummaryResponse]](t, rec)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)
	assert.Zero(t, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
	assert.Contains(t, rec.Body.String(), `"content":[]`)
}

func TestListProperties_DefaultsToNewestFirst(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodGet, "/api/v1/properties", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[PageResponse[PropertySummaryResponse]](t, rec)
	assert.Equal(t, []int64{3, 2, 1}, ids(page.Content))
	assert.Equal(t, 3, page.TotalElements)
	assert.Equal(t, 10, page.PageSize)
}

func TestListProperties_SortAndPaging(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodGet, "/api/v1/properties?sortBy=price&sortOrder=ASC&page=0&size=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[PageResponse[PropertySummaryResponse]](t, rec)
	assert.Equal(t, []int64{1, 3}, ids(page.Content))
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.Last)
	require.NotNil(t, page.Content[0].Price)
	assert.Equal(t, "2800", page.Content[0].Price.String())
	require.NotNil(t, page.Content[0].PrimaryImageURL)
	assert.Equal(t, "https://example.com/apt1_1.jpg", *page.Content[0].PrimaryImageURL)
	assert.Nil(t, page.Content[1].PrimaryImageURL)
}

func TestListProperties_HugePageIsEmpty(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	for _, target := range []string{
		"/api/v1/properties?page=4611686018427387904&size=2",
		"/api/v1/properties?page=9223372036854775807&size=2",
	} {
		rec := api.do(t, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)

		page := decode[PageResponse[PropertySummaryResponse]](t, rec)
		assert.Empty(t, page.Content, target)
		assert.Equal(t, 3, page.TotalElements, target)
		assert.True(t, page.Last, target)
	}
}

func TestListProperties_InvalidParameters(t *testing.T) {
	api := newTestAPI(t)

	for _, target := range []string{
		"/api/v1/properties?page=-1",
		"/api/v1/properties?size=0",
		"/api/v1/properties?size=101",
		"/api/v1/properties?page=abc",
		"/api/v1/properties?sortBy=title",
		"/api/v1/properties?sortOrder=sideways",
	} {
		t.Run(target, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestGetProperty(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodGet, "/api/v1/properties/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	details := decode[PropertyDetailsResponse](t, rec)
	assert.Equal(t, int64(1), details.ID)
	assert.Equal(t, "Stunning city views", details.Description)
	require.NotNil(t, details.Address)
	assert.Equal(t, "Austin", details.Address.City)
	assert.Len(t, details.Address.Geohash, 9)
	assert.True(t, strings.HasPrefix(details.Address.Geohash, "9v6"))
	assert.Equal(t, []string{"Gym", "Parking"}, details.Amenities)
	assert.False(t, details.CreatedAt.IsZero())
}

func TestGetProperty_Errors(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/properties/999", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/properties/0", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/properties/abc", "").Code)
}

func TestSearchProperties(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodPost, "/api/v1/properties/search?page=0&size=10",
		`{"minPrice": 1000, "maxPrice": 3000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[PageResponse[PropertySummaryResponse]](t, rec)
	assert.Equal(t, []int64{1}, ids(page.Content))

	rec = api.do(t, http.MethodPost, "/api/v1/properties/search",
		`{"status": "available", "sortBy": "bedrooms", "sortOrder": "desc"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[PageResponse[PropertySummaryResponse]](t, rec)
	assert.Equal(t, []int64{2, 1}, ids(page.Content))

	rec = api.do(t, http.MethodPost, "/api/v1/properties/search", `{"keyword": "BEACH", "city": "miami"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[PageResponse[PropertySummaryResponse]](t, rec)
	assert.Equal(t, []int64{3}, ids(page.Content))
}

func TestSearchProperties_InvalidRequests(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]string{
		"inverted price":     `{"minPrice": 5000, "maxPrice": 100}`,
		"inverted area":      `{"minSquareFeet": 900, "maxSquareFeet": 100}`,
		"negative bedrooms":  `{"minBedrooms": -1}`,
		"negative price":     `{"minPrice": -10}`,
		"unknown type":       `{"propertyType": "CASTLE"}`,
		"unknown status":     `{"status": "SOLD"}`,
		"unknown field":      `{"bedroomz": 2}`,
		"bad sort":           `{"sortBy": "title"}`,
		"malformed":          `{"minPrice":`,
		"empty body":         ``,
	} {
		t.Run(name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/v1/properties/search", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestFeaturedProperties(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodGet, "/api/v1/properties/featured?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{3, 2}, ids(decode[[]PropertySummaryResponse](t, rec)))

	rec = api.do(t, http.MethodGet, "/api/v1/properties/featured", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PropertySummaryResponse](t, rec), 3)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/properties/featured?limit=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/properties/featured?limit=51", "").Code)
}

func TestCreateUpdateDeleteProperty(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodPost, "/api/v1/properties", `{
		"id": 77,
		"title": "Sunny Studio",
		"price": "1450.50",
		"bedrooms": 0,
		"propertyType": "studio",
		"address": {"city": "Denver", "state": "CO", "latitude": 39.7392, "longitude": -104.9903},
		"images": [{"url": "https://example.com/studio.jpg", "description": "Main room"}]
	}`)
	// неизвестное поле id отклоняется
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/properties", `{
		"title": "Sunny Studio",
		"price": "1450.50",
		"bedrooms": 0,
		"propertyType": "studio",
		"address": {"city": "Denver", "state": "CO", "latitude": 39.7392, "longitude": -104.9903},
		"images": [{"url": "https://example.com/studio.jpg", "description": "Main room"}]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[PropertyDetailsResponse](t, rec)
	assert.Equal(t, int64(4), created.ID)
	assert.Equal(t, "/api/v1/properties/4", rec.Header().Get("Location"))
	assert.Equal(t, "STUDIO", created.PropertyType)
	assert.Equal(t, "AVAILABLE", created.Status)
	require.NotNil(t, created.Price)
	assert.Equal(t, "1450.5", created.Price.String())
	require.NotNil(t, created.Address)
	assert.NotEmpty(t, created.Address.Geohash)

	rec = api.do(t, http.MethodPut, "/api/v1/properties/4", `{
		"title": "Sunny Studio (renovated)",
		"price": 1600,
		"propertyType": "STUDIO",
		"status": "PENDING"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[PropertyDetailsResponse](t, rec)
	assert.Equal(t, int64(4), updated.ID)
	assert.Equal(t, "PENDING", updated.Status)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/v1/properties/4", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodDelete, "/api/v1/properties/4", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/v1/properties/4", "").Code)
}

func TestCreateProperty_Validation(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]string{
		"missing title":     `{"propertyType": "HOUSE"}`,
		"missing type":      `{"title": "House"}`,
		"negative price":    `{"title": "House", "propertyType": "HOUSE", "price": -1}`,
		"negative bedrooms": `{"title": "House", "propertyType": "HOUSE", "bedrooms": -2}`,
		"lonely latitude":   `{"title": "House", "propertyType": "HOUSE", "address": {"latitude": 10}}`,
		"bad longitude":     `{"title": "House", "propertyType": "HOUSE", "address": {"latitude": 10, "longitude": 200}}`,
		"empty image url":   `{"title": "House", "propertyType": "HOUSE", "images": [{"url": ""}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/v1/properties", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, api.store.Count(context.Background()))
}

func TestStatsAndHealth(t *testing.T) {
	api := newTestAPI(t)
	api.seed(t)

	rec := api.do(t, http.MethodGet, "/api/v1/properties/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[StatsResponse](t, rec)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus["AVAILABLE"])
	assert.Equal(t, 1, stats.ByStatus["RENTED"])
	assert.Equal(t, 0, stats.ByStatus["INACTIVE"])

	for _, target := range []string{"/health", "/api/v1/health"} {
		rec = api.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	}
}

func TestLoggerMiddleware_TraceID(t *testing.T) {
	api := newTestAPI(t)

	const traceID = "5f0c6c2e-3c52-4a8a-9d61-8f0f5d2b7e11"
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceIDHeader, traceID)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, traceID, rec.Header().Get(traceIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	got := rec.Header().Get(traceIDHeader)
	assert.NotEqual(t, "not-a-uuid", got)
	assert.Len(t, got, 36)
}
