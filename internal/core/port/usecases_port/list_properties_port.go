package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type ListPropertiesUseCase interface {
	Execute(ctx context.Context, page, size int, sorting domain.Sorting) (domain.Page[domain.PropertySummary], error)
}
