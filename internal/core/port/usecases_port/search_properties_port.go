package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type SearchPropertiesUseCase interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria, sorting domain.Sorting, page, size int) (domain.Page[domain.PropertySummary], error)
}
