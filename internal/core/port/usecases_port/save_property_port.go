package usecases_port

import (
	"context"

	"catalog-service/internal/core/domain"
)

type SavePropertyUseCase interface {
	Execute(ctx context.Context, property domain.Property) (domain.PropertyDetails, error)
}

type DeletePropertyUseCase interface {
	Execute(ctx context.Context, id int64) error
}
