package rabbitmq_common

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultReconnectInterval = 10 * time.Second

// ConnectionManager держит одно соединение RabbitMQ на процесс и раздает из него каналы
type ConnectionManager struct {
	cfg        Config
	connection *amqp.Connection
	mutex      sync.RWMutex
	logger     Logger

	reconnectInterval time.Duration
	stop              context.CancelFunc
	done              chan struct{}
}

// NewConnectionManager подключается к брокеру и запускает фоновое переподключение
func NewConnectionManager(cfg Config, logger Logger) (*ConnectionManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("connection manager: %w", err)
	}
	if logger == nil {
		logger = NewNoopLogger()
	}

	m := &ConnectionManager{
		cfg:               cfg,
		logger:            logger,
		reconnectInterval: defaultReconnectInterval,
		done:              make(chan struct{}),
	}
	if _, err := m.getConnection(); err != nil {
		logger.Error(err, "Initial connection failed")
		return nil, fmt.Errorf("initial connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.stop = cancel
	go m.handleReconnect(ctx)

	return m, nil
}

// getConnection возвращает живое соединение или устанавливает новое
func (m *ConnectionManager) getConnection() (*amqp.Connection, error) {
	m.mutex.RLock()
	if m.connection != nil && !m.connection.IsClosed() {
		defer m.mutex.RUnlock()
		return m.connection, nil
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// другой поток мог уже переподключиться
	if m.connection != nil && !m.connection.IsClosed() {
		return m.connection, nil
	}

	m.logger.Debug("ConnectionManager: connecting")
	conn, err := amqp.Dial(m.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	m.connection = conn
	m.logger.Info("ConnectionManager: connected")
	return conn, nil
}

// GetChannel открывает новый канал в общем соединении
func (m *ConnectionManager) GetChannel() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := m.getConnection()
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return conn, nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	return conn, ch, nil
}

func (m *ConnectionManager) handleReconnect(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.reconnectInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		m.mutex.RLock()
		closed := m.connection == nil || m.connection.IsClosed()
		m.mutex.RUnlock()
		if !closed {
			continue
		}

		m.logger.Warn("ConnectionManager: connection is closed, reconnecting")
		if _, err := m.getConnection(); err != nil {
			m.logger.Error(err, "ConnectionManager: reconnect failed")
		}
	}
}

// Close останавливает переподключение и закрывает соединение
func (m *ConnectionManager) Close() error {
	if m.stop != nil {
		m.stop()
		<-m.done
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.connection == nil || m.connection.IsClosed() {
		m.logger.Debug("ConnectionManager: connection was already closed")
		return nil
	}
	if err := m.connection.Close(); err != nil {
		m.logger.Error(err, "ConnectionManager: failed to close connection")
		return err
	}
	m.logger.Info("ConnectionManager: connection closed")
	return nil
}
