package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/query"

	"github.com/shopspring/decimal"
)

// PropertyStore - потокобезопасное хранилище объявлений в памяти процесса.
// Карта защищена RWMutex, ID выдаются атомарным счетчиком и никогда не переиспользуются.
type PropertyStore struct {
	mu         sync.RWMutex
	properties map[int64]domain.Property

	lastID  atomic.Int64
	version atomic.Uint64

	now func() time.Time
}

type Option func(*PropertyStore)

// WithClock подменяет источник времени (для тестов)
func WithClock(now func() time.Time) Option {
	return func(s *PropertyStore) {
		s.now = now
	}
}

func NewPropertyStore(opts ...Option) *PropertyStore {
	s := &PropertyStore{
		properties: make(map[int64]domain.Property),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save вставляет или обновляет запись.
// Новой записи (ID == 0) выдается следующий ID и обе метки времени;
// у существующей сохраняется исходный CreatedAt, а UpdatedAt обновляется.
func (s *PropertyStore) Save(_ context.Context, property domain.Property) (domain.Property, error) {
	stored := property.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	// ID выдается под блокировкой записи, чтобы порядок ID совпадал с порядком вставки
	if stored.IsNew() {
		stored.ID = s.lastID.Add(1)
	} else {
		s.reserveID(stored.ID)
	}

	now := s.now()
	if existing, ok := s.properties[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if property.IsNew() || stored.CreatedAt.IsZero() || stored.CreatedAt.After(now) {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.properties[stored.ID] = stored
	s.version.Add(1)

	return stored.Clone(), nil
}

// reserveID сдвигает счетчик за явно переданный ID, чтобы он не был выдан повторно
func (s *PropertyStore) reserveID(id int64) {
	for {
		last := s.lastID.Load()
		if id <= last || s.lastID.CompareAndSwap(last, id) {
			return
		}
	}
}

func (s *PropertyStore) FindByID(_ context.Context, id int64) (domain.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.properties[id]
	if !ok {
		return domain.Property{}, false
	}
	return p.Clone(), true
}

// FindAll - копия всех записей в порядке возрастания ID
func (s *PropertyStore) FindAll(ctx context.Context) []domain.Property {
	records, _ := s.Snapshot(ctx)
	return records
}

func (s *PropertyStore) Snapshot(_ context.Context) ([]domain.Property, uint64) {
	s.mu.RLock()
	out := make([]domain.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p.Clone())
	}
	version := s.version.Load()
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b domain.Property) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, version
}

func (s *PropertyStore) DeleteByID(_ context.Context, id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; ok {
		delete(s.properties, id)
		s.version.Add(1)
	}
}

func (s *PropertyStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.properties)
}

func (s *PropertyStore) Version() uint64 {
	return s.version.Load()
}

func (s *PropertyStore) FindByStatus(ctx context.Context, status domain.PropertyStatus) []domain.Property {
	return query.Filter(s.FindAll(ctx), domain.SearchCriteria{Status: &status})
}

func (s *PropertyStore) FindByCity(ctx context.Context, city string) []domain.Property {
	if city == "" {
		return []domain.Property{}
	}
	return query.Filter(s.FindAll(ctx), domain.SearchCriteria{City: city})
}

// FindByPriceRange - записи с известной ценой в границах; nil-граница не ограничивает
func (s *PropertyStore) FindByPriceRange(ctx context.Context, minPrice, maxPrice *decimal.Decimal) []domain.Property {
	if minPrice != nil || maxPrice != nil {
		// при заданной границе Filter сам отбрасывает записи без цены
		return query.Filter(s.FindAll(ctx), domain.SearchCriteria{MinPrice: minPrice, MaxPrice: maxPrice})
	}

	all := s.FindAll(ctx)
	out := make([]domain.Property, 0, len(all))
	for _, p := range all {
		if p.Price != nil {
			out = append(out, p)
		}
	}
	return out
}
