package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type CatalogStatsUseCase interface {
	Execute(ctx context.Context) (domain.CatalogStats, error)
}
