package port

import (
	"context"

	"catalog-service/internal/core/domain"

	"github.com/shopspring/decimal"
)

// PropertyStoragePort - хранилище объявлений каталога.
// Все методы возвращают копии; менять запись можно только через Save.
type PropertyStoragePort interface {
	Save(ctx context.Context, property domain.Property) (domain.Property, error)
	FindByID(ctx context.Context, id int64) (domain.Property, bool)
	FindAll(ctx context.Context) []domain.Property
	DeleteByID(ctx context.Context, id int64)
	Count(ctx context.Context) int

	FindByStatus(ctx context.Context, status domain.PropertyStatus) []domain.Property
	FindByCity(ctx context.Context, city string) []domain.Property
	FindByPriceRange(ctx context.Context, minPrice, maxPrice *decimal.Decimal) []domain.Property

	// Snapshot возвращает согласованный срез записей и версию каталога, которой он соответствует
	Snapshot(ctx context.Context) ([]domain.Property, uint64)
	// Version растет при каждом изменении каталога
	Version() uint64
}
