package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/query"
)

// FeaturedPropertiesUseCase - самые новые объявления для главной страницы, без пагинации
type FeaturedPropertiesUseCase struct {
	storage port.PropertyStoragePort
}

func NewFeaturedPropertiesUseCase(storage port.PropertyStoragePort) *FeaturedPropertiesUseCase {
	return &FeaturedPropertiesUseCase{storage: storage}
}

func (uc *FeaturedPropertiesUseCase) Execute(ctx context.Context, limit int) ([]domain.PropertySummary, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "FeaturedProperties",
		"limit":    limit,
	})

	ucLogger.Info("Use case started", nil)

	records := uc.storage.FindAll(ctx)
	query.Sort(records, domain.DefaultSorting())

	if limit < 0 {
		limit = 0
	}
	records = records[:min(limit, len(records))]

	result := make([]domain.PropertySummary, len(records))
	for i, p := range records {
		result[i] = ToSummary(p)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"returned": len(result)})
	return result, nil
}
