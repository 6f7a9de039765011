package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-service/internal/constants"
	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"
	usecases_port "catalog-service/internal/core/port/usecases_port"
	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventValidator проверяет тело события по его контракту
type EventValidator interface {
	ValidateEvent(eventType, eventVersion string, body []byte) error
}

// PropertyUpsertConsumerAdapter - входящий адаптер: слушает очередь upsert-событий
// и сохраняет объявления через SavePropertyUseCase
type PropertyUpsertConsumerAdapter struct {
	consumer  *rabbitmq_consumer.DistributingConsumer
	useCase   usecases_port.SavePropertyUseCase
	validator EventValidator
	logger    port.LoggerPort
}

func NewPropertyUpsertConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.SavePropertyUseCase,
	validator EventValidator,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*PropertyUpsertConsumerAdapter, error) {
	adapter := newPropertyUpsertHandler(useCase, validator, logger)

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "queue": consumerCfg.QueueName})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(consumerCfg, adapter.handleDelivery, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for property upserts: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func newPropertyUpsertHandler(useCase usecases_port.SavePropertyUseCase, validator EventValidator, logger port.LoggerPort) *PropertyUpsertConsumerAdapter {
	return &PropertyUpsertConsumerAdapter{
		useCase:   useCase,
		validator: validator,
		logger:    logger,
	}
}

// handleDelivery разбирает одно сообщение. Ошибка отправляет сообщение на ретрай.
func (a *PropertyUpsertConsumerAdapter) handleDelivery(ctx context.Context, d amqp.Delivery) error {
	headerTraceID, _ := d.Headers[constants.HeaderTraceID].(string)
	ctx, traceID := contextkeys.EnsureTraceID(ctx, headerTraceID)

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"message_id":   d.MessageId,
		"adapter_name": "PropertyUpsertConsumerAdapter",
	})
	ctx = contextkeys.ContextWithLogger(ctx, msgLogger)

	eventType, _ := d.Headers[constants.HeaderEventType].(string)
	eventVersion, _ := d.Headers[constants.HeaderEventVersion].(string)
	if eventType != constants.PropertyUpsertEventType {
		msgLogger.Warn("Unexpected event type, rejecting", port.Fields{"event_type": eventType})
		return fmt.Errorf("unexpected event type %q", eventType)
	}
	if err := a.validator.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Error("Message failed schema validation, rejecting", err, nil)
		return err
	}

	var dto PropertyUpsertDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		return fmt.Errorf("failed to unmarshal property upsert event: %w", err)
	}
	property, err := toDomainProperty(dto)
	if err != nil {
		msgLogger.Error("Event does not map to a property", err, nil)
		return err
	}

	details, err := a.useCase.Execute(ctx, property)
	if err != nil {
		msgLogger.Error("SaveProperty failed", err, nil)
		return err
	}

	msgLogger.Info("Property upsert processed", port.Fields{"property_id": details.ID})
	return nil
}

// Start реализует EventListenerPort
func (a *PropertyUpsertConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует EventListenerPort
func (a *PropertyUpsertConsumerAdapter) Close() error {
	return a.consumer.Close()
}
