package port

import (
	"context"

	"catalog-service/internal/core/domain"
)

// EventListenerPort - входящий адаптер, который слушает очередь до отмены контекста
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}

// PropertyEventsPort - исходящие уведомления об изменениях каталога
type PropertyEventsPort interface {
	PublishPropertySaved(ctx context.Context, property domain.PropertyDetails) error
}
