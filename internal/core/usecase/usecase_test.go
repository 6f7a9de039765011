package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"catalog-service/internal/adapters/memory"
	"catalog-service/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// newStore - хранилище с часами, идущими вперед на минуту за вызов
func newStore() *memory.PropertyStore {
	var mu sync.Mutex
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return memory.NewPropertyStore(memory.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := current
		current = current.Add(time.Minute)
		return now
	}))
}

func seedPrices(t *testing.T, store *memory.PropertyStore, prices ...string) {
	t.Helper()
	for i, p := range prices {
		_, err := store.Save(context.Background(), domain.Property{
			Title:        "Listing " + p,
			Price:        price(p),
			Bedrooms:     ptr(i + 1),
			PropertyType: domain.PropertyTypeApartment,
			Status:       domain.PropertyStatusAvailable,
			Address:      &domain.Address{City: "Austin", State: "TX"},
			Images:       []domain.PropertyImage{{URL: "https://img.example.com/" + p + ".jpg"}},
		})
		require.NoError(t, err)
	}
}

type fakePublisher struct {
	mu        sync.Mutex
	published []domain.PropertyDetails
	err       error
}

func (f *fakePublisher) PublishPropertySaved(_ context.Context, details domain.PropertyDetails) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, details)
	return f.err
}

type recordingCache struct {
	pages map[string]domain.Page[domain.PropertySummary]
	hits  int
	sets  int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{pages: make(map[string]domain.Page[domain.PropertySummary])}
}

func (c *recordingCache) GetPage(key string) (domain.Page[domain.PropertySummary], bool) {
	p, ok := c.pages[key]
	if ok {
		c.hits++
	}
	return p, ok
}

func (c *recordingCache) SetPage(key string, page domain.Page[domain.PropertySummary]) {
	c.sets++
	c.pages[key] = page
}

func TestListProperties_EmptyCatalog(t *testing.T) {
	uc := NewListPropertiesUseCase(newStore(), nil)

	page, err := uc.Execute(context.Background(), 0, 10, domain.DefaultSorting())
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)
	assert.Zero(t, page.TotalPages)
	assert.True(t, page.First)
	assert.True(t, page.Last)
}

func TestListProperties_NewestFirstAndPaged(t *testing.T) {
	store := newStore()
	seedPrices(t, store, "100", "200", "300", "400", "500")
	uc := NewListPropertiesUseCase(store, nil)

	page, err := uc.Execute(context.Background(), 1, 2, domain.DefaultSorting())
	require.NoError(t, err)
	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(3), page.Content[0].ID)
	assert.Equal(t, int64(2), page.Content[1].ID)
	assert.Equal(t, 5, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)

	summary := page.Content[0]
	require.NotNil(t, summary.City)
	assert.Equal(t, "Austin", *summary.City)
	require.NotNil(t, summary.PrimaryImageURL)
	assert.Equal(t, "https://img.example.com/300.jpg", *summary.PrimaryImageURL)
}

func TestSearchProperties_PriceRange(t *testing.T) {
	store := newStore()
	seedPrices(t, store, "100", "500", "1000")
	uc := NewSearchPropertiesUseCase(store, nil)

	page, err := uc.Execute(context.Background(),
		domain.SearchCriteria{MinPrice: price("200"), MaxPrice: price("800")},
		domain.DefaultSorting(), 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "500", page.Content[0].Price.String())
	assert.Equal(t, 1, page.TotalElements)
}

func TestSearchProperties_SortsByRequestedKey(t *testing.T) {
	store := newStore()
	seedPrices(t, store, "300", "100", "200")
	uc := NewSearchPropertiesUseCase(store, nil)

	page, err := uc.Execute(context.Background(), domain.SearchCriteria{City: "austin"},
		domain.Sorting{Key: domain.SortByPrice, Order: domain.SortAsc}, 0, 10)
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, []string{"100", "200", "300"}, []string{
		page.Content[0].Price.String(), page.Content[1].Price.String(), page.Content[2].Price.String(),
	})
}

func TestQueryCache_HitUntilCatalogChanges(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	seedPrices(t, store, "100", "200")
	cache := newRecordingCache()
	uc := NewListPropertiesUseCase(store, cache)

	first, err := uc.Execute(ctx, 0, 10, domain.DefaultSorting())
	require.NoError(t, err)
	second, err := uc.Execute(ctx, 0, 10, domain.DefaultSorting())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.sets)

	seedPrices(t, store, "300")

	third, err := uc.Execute(ctx, 0, 10, domain.DefaultSorting())
	require.NoError(t, err)
	assert.Equal(t, 3, third.TotalElements)
	assert.Equal(t, 1, cache.hits, "a mutation must not be served from cache")
	assert.Equal(t, 2, cache.sets)
}

func TestQueryCache_SearchAndListDoNotShareEntries(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	seedPrices(t, store, "100", "200")
	cache := newRecordingCache()

	list := NewListPropertiesUseCase(store, cache)
	search := NewSearchPropertiesUseCase(store, cache)

	_, err := list.Execute(ctx, 0, 10, domain.DefaultSorting())
	require.NoError(t, err)
	page, err := search.Execute(ctx, domain.SearchCriteria{MaxPrice: price("150")}, domain.DefaultSorting(), 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, page.TotalElements)
	assert.Zero(t, cache.hits)
	assert.Equal(t, 2, cache.sets)
}

func TestFeaturedProperties(t *testing.T) {
	store := newStore()
	seedPrices(t, store, "100", "200", "300", "400")
	uc := NewFeaturedPropertiesUseCase(store)

	t.Run("newest first, limited", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, int64(4), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("limit above catalog size", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), 50)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("zero limit", func(t *testing.T) {
		got, err := uc.Execute(context.Background(), 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestGetProperty(t *testing.T) {
	store := newStore()
	_, err := store.Save(context.Background(), domain.Property{
		Title:        "Loft",
		PropertyType: domain.PropertyTypeApartment,
		Status:       domain.PropertyStatusAvailable,
		Address:      &domain.Address{City: "Austin", Latitude: ptr(30.2672), Longitude: ptr(-97.7431)},
	})
	require.NoError(t, err)
	uc := NewGetPropertyUseCase(store)

	details, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Loft", details.Title)
	require.NotNil(t, details.Address)
	assert.Len(t, details.Address.Geohash, 9)
	assert.Equal(t, "9v6", details.Address.Geohash[:3])
	assert.NotNil(t, details.Amenities)
	assert.NotNil(t, details.Images)

	_, err = uc.Execute(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestDeleteProperty(t *testing.T) {
	store := newStore()
	seedPrices(t, store, "100")
	uc := NewDeletePropertyUseCase(store)

	require.NoError(t, uc.Execute(context.Background(), 1))
	assert.Zero(t, store.Count(context.Background()))

	err := uc.Execute(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestSaveProperty_PublishesSavedEvent(t *testing.T) {
	store := newStore()
	publisher := &fakePublisher{}
	uc := NewSavePropertyUseCase(store, publisher)

	details, err := uc.Execute(context.Background(), domain.Property{
		Title:        "New listing",
		Price:        price("1450.50"),
		PropertyType: domain.PropertyTypeStudio,
		Status:       domain.PropertyStatusAvailable,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.ID)
	assert.False(t, details.CreatedAt.IsZero())

	require.Len(t, publisher.published, 1)
	assert.Equal(t, details, publisher.published[0])
}

func TestSaveProperty_PublishErrorDoesNotFailSave(t *testing.T) {
	store := newStore()
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	uc := NewSavePropertyUseCase(store, publisher)

	details, err := uc.Execute(context.Background(), domain.Property{
		Title:        "New listing",
		PropertyType: domain.PropertyTypeStudio,
		Status:       domain.PropertyStatusAvailable,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.ID)
	assert.Equal(t, 1, store.Count(context.Background()))
}

func TestSaveProperty_WithoutPublisher(t *testing.T) {
	uc := NewSavePropertyUseCase(newStore(), nil)

	_, err := uc.Execute(context.Background(), domain.Property{
		Title:        "New listing",
		PropertyType: domain.PropertyTypeHouse,
		Status:       domain.PropertyStatusAvailable,
	})
	assert.NoError(t, err)
}

func TestCatalogStats(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	seedPrices(t, store, "100", "200")
	_, err := store.Save(ctx, domain.Property{
		Title:        "Rented",
		PropertyType: domain.PropertyTypeCondo,
		Status:       domain.PropertyStatusRented,
	})
	require.NoError(t, err)

	stats, err := NewCatalogStatsUseCase(store).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[domain.PropertyStatusAvailable])
	assert.Equal(t, 1, stats.ByStatus[domain.PropertyStatusRented])
	assert.Equal(t, 0, stats.ByStatus[domain.PropertyStatusInactive])
	assert.Len(t, stats.ByStatus, len(domain.PropertyStatuses()))
}

func TestToSummary_WithoutAddressOrImages(t *testing.T) {
	s := ToSummary(domain.Property{ID: 7, Title: "Bare"})
	assert.Nil(t, s.City)
	assert.Nil(t, s.State)
	assert.Nil(t, s.PrimaryImageURL)
	assert.Nil(t, s.Price)
}

func TestCatalogStats_BucketsMatchTotalUnderConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	seedPrices(t, store, "100", "200", "300")
	uc := NewCatalogStatsUseCase(store)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		statuses := domain.PropertyStatuses()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			saved, err := store.Save(ctx, domain.Property{
				Title:        "Churn",
				PropertyType: domain.PropertyTypeStudio,
				Status:       statuses[i%len(statuses)],
			})
			if err != nil {
				return
			}
			if i%2 == 0 {
				store.DeleteByID(ctx, saved.ID)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		stats, err := uc.Execute(ctx)
		require.NoError(t, err)

		sum := 0
		for _, n := range stats.ByStatus {
			sum += n
		}
		require.Equal(t, stats.Total, sum)
	}
	close(done)
	wg.Wait()
}
