package rabbitmq_consumer

import (
	"context"
	"fmt"
	"time"

	"catalog-service/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Ack/Nack/ретраи решает потребитель.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// DistributingConsumer обрабатывает каждое сообщение в отдельной горутине
type DistributingConsumer struct {
	base    *baseConsumer
	handler MessageHandler
}

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("distributing consumer: message handler is required")
	}
	bc, err := newBaseConsumer(cfg, connManager)
	if err != nil {
		return nil, fmt.Errorf("distributing consumer: %w", err)
	}
	return &DistributingConsumer{base: bc, handler: handler}, nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения брокером
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	b := c.base
	if b.channel == nil || b.connection == nil || b.connection.IsClosed() {
		return fmt.Errorf("distributing consumer: not connected")
	}

	msgs, err := b.channel.Consume(
		b.actualQueueName,
		b.config.ConsumerTag,
		false, // auto-ack
		b.config.ExclusiveConsumer,
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("distributing consumer: failed to consume from '%s': %w", b.actualQueueName, err)
	}
	b.logger.Info("Waiting for messages", "queue_name", b.actualQueueName)

	go c.dispatch(ctx, msgs)

	notifyClose := b.connection.NotifyClose(make(chan *amqp.Error, 1))
	select {
	case <-ctx.Done():
		b.logger.Info("Context cancelled, consumer stopping", "queue_name", b.actualQueueName)
		return nil
	case amqpErr := <-notifyClose:
		if amqpErr == nil {
			return nil
		}
		b.logger.Error(amqpErr, "Connection closed for consumer", "queue_name", b.actualQueueName)
		return amqpErr
	}
}

func (c *DistributingConsumer) dispatch(ctx context.Context, msgs <-chan amqp.Delivery) {
	b := c.base
	for {
		// отмена проверяется первой, чтобы не брать новые сообщения после остановки
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				b.logger.Info("Deliveries channel closed", "queue_name", b.actualQueueName)
				return
			}
			b.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer b.wg.Done()
				c.settle(ctx, delivery, c.handler(ctx, delivery))
			}(d)
		}
	}
}

// settle подтверждает сообщение, отправляет его на ретрай или в финальную DLQ
func (c *DistributingConsumer) settle(ctx context.Context, d amqp.Delivery, processErr error) {
	b := c.base
	if processErr == nil {
		_ = d.Ack(false)
		b.logger.Debug("Message acked", "delivery_tag", d.DeliveryTag)
		return
	}

	b.logger.Error(processErr, "Handler error for message", "delivery_tag", d.DeliveryTag)

	if !b.config.EnableRetryMechanism {
		_ = d.Nack(false, false)
		return
	}

	deaths := deathCount(d, b.actualQueueName)
	if deaths < int64(b.config.MaxRetries) {
		b.logger.Info("Retrying message", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = d.Nack(false, false)
		return
	}

	b.logger.Warn("Max retries reached, publishing to final DLX", "delivery_tag", d.DeliveryTag)
	err := b.finalDlxPublisher.Publish(context.WithoutCancel(ctx), b.config.FinalDLQRoutingKey, amqp.Publishing{
		ContentType:  d.ContentType,
		Body:         d.Body,
		Headers:      d.Headers,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		b.logger.Error(err, "Failed to publish to final DLX", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (c *DistributingConsumer) Close() error {
	return c.base.Close()
}
