package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type SearchPropertiesUseCase struct {
	query catalogQuery
}

func NewSearchPropertiesUseCase(storage port.PropertyStoragePort, cache port.QueryCachePort) *SearchPropertiesUseCase {
	return &SearchPropertiesUseCase{query: catalogQuery{storage: storage, cache: cache}}
}

// Execute не перепроверяет критерии: min <= max и прочее валидирует вызывающий слой
func (uc *SearchPropertiesUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria, sorting domain.Sorting, page, size int) (domain.Page[domain.PropertySummary], error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SearchProperties",
		"criteria":   criteria,
		"page":       page,
		"size":       size,
		"sort_by":    sorting.Key,
		"sort_order": sorting.Order,
	})

	ucLogger.Info("Use case started", nil)

	result, cached := uc.query.run(ctx, "search", &criteria, sorting, page, size)

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalElements,
		"items_on_page": len(result.Content),
		"from_cache":    cached,
	})
	return result, nil
}
