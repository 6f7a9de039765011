package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"

	"catalog-service/pkg/rabbitmq/rabbitmq_common"
	"catalog-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName       string // пустое имя сгенерирует сервер (только с DeclareQueue)
	DeclareQueue    bool
	DurableQueue    bool
	ExclusiveQueue  bool
	AutoDeleteQueue bool
	QueueArgs       amqp.Table

	ExchangeNameForBind    string // пусто - без привязки
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	ExchangeArgsForBind    amqp.Table

	RoutingKeyForBind string
	BindingArgs       amqp.Table

	PrefetchCount int // 0 - без ограничений
	PrefetchSize  int
	QosGlobal     bool

	ConsumerTag       string
	ExclusiveConsumer bool

	// Ретраи через очередь ожидания с TTL и финальную DLQ
	EnableRetryMechanism bool
	RetryExchange        string
	RetryQueue           string
	RetryTTL             int // мс
	FinalDLXExchange     string
	FinalDLQ             string
	FinalDLQRoutingKey   string
	MaxRetries           int

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if !c.DeclareQueue && c.QueueName == "" {
		return fmt.Errorf("queue name is required if DeclareQueue is false")
	}
	if c.DeclareExchangeForBind && c.ExchangeTypeForBind == "" {
		return fmt.Errorf("exchange type is required if declaring an exchange for binding")
	}
	if c.EnableRetryMechanism {
		if c.RetryExchange == "" || c.RetryQueue == "" || c.FinalDLXExchange == "" || c.FinalDLQ == "" {
			return fmt.Errorf("retry and final DLX names are required when retries are enabled")
		}
		if c.RetryTTL <= 0 {
			return fmt.Errorf("retry TTL must be positive")
		}
		if c.MaxRetries < 0 {
			return fmt.Errorf("max retries must not be negative")
		}
	}
	return nil
}

// publisher - то, что потребителю нужно от финального DLX-издателя
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
	Close() error
}

// baseConsumer - канал, QoS и топология очередей
type baseConsumer struct {
	config            ConsumerConfig
	connection        *amqp.Connection
	channel           *amqp.Channel
	actualQueueName   string
	finalDlxPublisher publisher
	wg                sync.WaitGroup // обработчики в полете

	logger rabbitmq_common.Logger
}

func newBaseConsumer(cfg ConsumerConfig, connManager *rabbitmq_common.ConnectionManager) (*baseConsumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &baseConsumer{
		config:     cfg,
		connection: conn,
		channel:    ch,
		logger:     logger,
	}

	if err := c.setupTopology(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}

	if cfg.EnableRetryMechanism {
		dlxPublisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       cfg.Config,
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("consumer: failed to create final DLX publisher: %w", err)
		}
		c.finalDlxPublisher = dlxPublisher
	}

	return c, nil
}

// setupTopology объявляет очередь, обменник, привязку и инфраструктуру ретраев
func (c *baseConsumer) setupTopology() error {
	cfg := &c.config

	if cfg.PrefetchCount > 0 || cfg.PrefetchSize > 0 {
		c.logger.Debug("Setting QoS", "prefetch_count", cfg.PrefetchCount, "prefetch_size", cfg.PrefetchSize)
		if err := c.channel.Qos(cfg.PrefetchCount, cfg.PrefetchSize, cfg.QosGlobal); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if cfg.EnableRetryMechanism {
		if cfg.QueueArgs == nil {
			cfg.QueueArgs = amqp.Table{}
		}
		// отвергнутые сообщения основной очереди уходят в retry-обменник
		cfg.QueueArgs["x-dead-letter-exchange"] = cfg.RetryExchange
	}

	c.actualQueueName = cfg.QueueName
	if cfg.DeclareQueue {
		c.logger.Debug("Declaring queue", "name", cfg.QueueName, "durable", cfg.DurableQueue)
		q, err := c.channel.QueueDeclare(
			cfg.QueueName,
			cfg.DurableQueue,
			cfg.AutoDeleteQueue,
			cfg.ExclusiveQueue,
			false, // no-wait
			cfg.QueueArgs,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
		}
		c.actualQueueName = q.Name
	}

	if cfg.DeclareExchangeForBind {
		c.logger.Debug("Declaring exchange", "name", cfg.ExchangeNameForBind, "type", cfg.ExchangeTypeForBind)
		err := c.channel.ExchangeDeclare(
			cfg.ExchangeNameForBind,
			cfg.ExchangeTypeForBind,
			cfg.DurableExchangeForBind,
			false, // auto-deleted
			false, // internal
			false, // no-wait
			cfg.ExchangeArgsForBind,
		)
		if err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", cfg.ExchangeNameForBind, err)
		}
	}

	if cfg.ExchangeNameForBind != "" {
		c.logger.Debug("Binding queue",
			"queue_name", c.actualQueueName,
			"exchange_name", cfg.ExchangeNameForBind,
			"routing_key", cfg.RoutingKeyForBind,
		)
		err := c.channel.QueueBind(c.actualQueueName, cfg.RoutingKeyForBind, cfg.ExchangeNameForBind, false, cfg.BindingArgs)
		if err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", c.actualQueueName, cfg.ExchangeNameForBind, err)
		}
	}

	if cfg.EnableRetryMechanism {
		if err := c.setupRetryTopology(); err != nil {
			return err
		}
	}

	c.logger.Debug("Setup complete", "queue", c.actualQueueName)
	return nil
}

func (c *baseConsumer) setupRetryTopology() error {
	cfg := c.config

	if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	// очередь ожидания по истечении TTL возвращает сообщение в основной обменник
	_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":          int32(cfg.RetryTTL),
		"x-dead-letter-exchange": cfg.ExchangeNameForBind,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}

	c.logger.Debug("Retry topology ready", "retry_queue", cfg.RetryQueue, "final_dlq", cfg.FinalDLQ)
	return nil
}

// deathCount - сколько раз сообщение было отвергнуто из очереди queueName (по заголовку x-death)
func deathCount(d amqp.Delivery, queueName string) int64 {
	deaths, ok := d.Headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, _ := tbl["queue"].(string); queue != queueName {
			continue
		}
		if count, ok := tbl["count"].(int64); ok {
			return count
		}
	}
	return 0
}

// Close дожидается обработчиков и закрывает канал. Соединение принадлежит ConnectionManager.
func (c *baseConsumer) Close() error {
	c.logger.Debug("Waiting for message handlers to finish")
	c.wg.Wait()

	var firstErr error
	if c.finalDlxPublisher != nil {
		if err := c.finalDlxPublisher.Close(); err != nil {
			c.logger.Error(err, "Error closing final DLX publisher")
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error(err, "Error closing channel")
			if firstErr == nil {
				firstErr = err
			}
		}
		c.channel = nil
	}

	c.logger.Info("Consumer closed", "queue", c.actualQueueName)
	return firstErr
}
