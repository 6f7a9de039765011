package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

type GetPropertyUseCase struct {
	storage port.PropertyStoragePort
}

func NewGetPropertyUseCase(storage port.PropertyStoragePort) *GetPropertyUseCase {
	return &GetPropertyUseCase{storage: storage}
}

// Execute возвращает domain.ErrPropertyNotFound, если объявления нет
func (uc *GetPropertyUseCase) Execute(ctx context.Context, id int64) (domain.PropertyDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetProperty",
		"property_id": id,
	})

	ucLogger.Info("Use case started", nil)

	property, ok := uc.storage.FindByID(ctx, id)
	if !ok {
		ucLogger.Warn("Property not found", nil)
		return domain.PropertyDetails{}, fmt.Errorf("property %d: %w", id, domain.ErrPropertyNotFound)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return ToDetails(property), nil
}
