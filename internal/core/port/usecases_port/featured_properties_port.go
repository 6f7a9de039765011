package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type FeaturedPropertiesUseCase interface {
	Execute(ctx context.Context, limit int) ([]domain.PropertySummary, error)
}
