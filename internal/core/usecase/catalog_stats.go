package usecase

import (
	"context"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type CatalogStatsUseCase struct {
	storage port.PropertyStoragePort
}

func NewCatalogStatsUseCase(storage port.PropertyStoragePort) *CatalogStatsUseCase {
	return &CatalogStatsUseCase{storage: storage}
}

func (uc *CatalogStatsUseCase) Execute(ctx context.Context) (domain.CatalogStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "CatalogStats"})

	// итог и разбивка по статусам считаются по одному снимку
	records, _ := uc.storage.Snapshot(ctx)

	stats := domain.CatalogStats{
		Total:    len(records),
		ByStatus: make(map[domain.PropertyStatus]int),
	}
	for _, status := range domain.PropertyStatuses() {
		stats.ByStatus[status] = 0
	}
	for _, p := range records {
		stats.ByStatus[p.Status]++
	}

	ucLogger.Debug("Catalog stats computed", port.Fields{"total": stats.Total})
	return stats, nil
}
