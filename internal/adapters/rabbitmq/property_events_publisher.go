package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-service/internal/constants"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// MessagePublisher - часть rabbitmq_producer.Publisher, нужная адаптеру
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// PropertyEventsAdapter публикует PropertySavedEvent, реализует port.PropertyEventsPort
type PropertyEventsAdapter struct {
	producer   MessagePublisher
	routingKey string
	validator  EventValidator
}

// NewPropertyEventsAdapter: validator может быть nil, тогда исходящие события не проверяются
func NewPropertyEventsAdapter(producer MessagePublisher, routingKey string, validator EventValidator) (*PropertyEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &PropertyEventsAdapter{
		producer:   producer,
		routingKey: routingKey,
		validator:  validator,
	}, nil
}

func (a *PropertyEventsAdapter) PublishPropertySaved(ctx context.Context, property domain.PropertyDetails) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "PropertyEventsAdapter",
		"routing_key": a.routingKey,
		"property_id": property.ID,
	})

	body, err := json.Marshal(toPropertySavedDTO(property))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: marshal saved event: %w", err)
	}
	if a.validator != nil {
		if err := a.validator.ValidateEvent(constants.PropertySavedEventType, constants.EventVersionV1, body); err != nil {
			return fmt.Errorf("rabbitmq adapter: saved event violates contract: %w", err)
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    uuid.New().String(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			constants.HeaderEventType:    constants.PropertySavedEventType,
			constants.HeaderEventVersion: constants.EventVersionV1,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers[constants.HeaderTraceID] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish property saved event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish saved event for property %d: %w", property.ID, err)
	}

	adapterLogger.Debug("Published property saved event", port.Fields{"message_id": msg.MessageId})
	return nil
}
