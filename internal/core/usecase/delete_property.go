package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type DeletePropertyUseCase struct {
	storage port.PropertyStoragePort
}

func NewDeletePropertyUseCase(storage port.PropertyStoragePort) *DeletePropertyUseCase {
	return &DeletePropertyUseCase{storage: storage}
}

// Execute удаляет запись. Хранилище само по себе идемпотентно, но для API отсутствие записи - это 404.
func (uc *DeletePropertyUseCase) Execute(ctx context.Context, id int64) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "DeleteProperty",
		"property_id": id,
	})

	ucLogger.Info("Use case started", nil)

	if _, ok := uc.storage.FindByID(ctx, id); !ok {
		ucLogger.Warn("Property not found", nil)
		return fmt.Errorf("property %d: %w", id, domain.ErrPropertyNotFound)
	}
	uc.storage.DeleteByID(ctx, id)

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
