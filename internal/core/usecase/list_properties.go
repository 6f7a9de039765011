package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// ListPropertiesUseCase - постраничный список всего каталога (поиск без фильтров)
type ListPropertiesUseCase struct {
	query catalogQuery
}

// NewListPropertiesUseCase; cache может быть nil
func NewListPropertiesUseCase(storage port.PropertyStoragePort, cache port.QueryCachePort) *ListPropertiesUseCase {
	return &ListPropertiesUseCase{query: catalogQuery{storage: storage, cache: cache}}
}

func (uc *ListPropertiesUseCase) Execute(ctx context.Context, page, size int, sorting domain.Sorting) (domain.Page[domain.PropertySummary], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "ListProperties",
		"page":       page,
		"size":       size,
		"sort_by":    sorting.Key,
		"sort_order": sorting.Order,
	})

	ucLogger.Info("Use case started", nil)

	result, cached := uc.query.run(ctx, "list", nil, sorting, page, size)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalElements,
		"items_on_page": len(result.Content),
		"from_cache":    cached,
	})
	return result, nil
}
