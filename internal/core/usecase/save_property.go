package usecase

import (
	"context"
	"fmt"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
)

// SavePropertyUseCase инкапсулирует логику сохранения объявления.
type SavePropertyUseCase struct {
	storage   port.PropertyStoragePort
	publisher port.PropertyEventsPort
}

// NewSavePropertyUseCase создает новый экземпляр use case. publisher может быть nil.
func NewSavePropertyUseCase(storage port.PropertyStoragePort, publisher port.PropertyEventsPort) *SavePropertyUseCase {
	return &SavePropertyUseCase{
		storage:   storage,
		publisher: publisher,
	}
}

// Execute сохраняет запись и, если настроен издатель, уведомляет о сохранении.
func (uc *SavePropertyUseCase) Execute(ctx context.Context, property domain.Property) (domain.PropertyDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SaveProperty",
		"property_id": property.ID,
		"is_new":      property.IsNew(),
	})

	ucLogger.Info("Use case started: attempting to save property", nil)

	saved, err := uc.storage.Save(ctx, property)
	if err != nil {
		ucLogger.Error("Storage returned an error during save", err, nil)
		return domain.PropertyDetails{}, fmt.Errorf("failed to save property %q: %w", property.Title, err)
	}

	details := ToDetails(saved)

	if uc.publisher != nil {
		if err := uc.publisher.PublishPropertySaved(ctx, details); err != nil {
			// Сохранение уже прошло, поэтому ошибку уведомления только логируем
			ucLogger.Error("Failed to publish property saved event", err, port.Fields{"property_id": saved.ID})
		}
	}

	ucLogger.Info("Use case finished: property saved", port.Fields{"property_id": saved.ID})
	return details, nil
}
