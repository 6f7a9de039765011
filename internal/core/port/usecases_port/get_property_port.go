package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type GetPropertyUseCase interface {
	Execute(ctx context.Context, id int64) (domain.PropertyDetails, error)
}
