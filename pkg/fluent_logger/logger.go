package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config хранит конфигурацию для подключения к Fluent Bit.
type Config struct {
	Host      string // "127.0.0.1" или "fluent-bit" в Docker
	Port      int    // обычно 24224
	TagPrefix string // общий префикс тегов, например имя сервиса
	// Async - не блокировать запись лога на сетевой отправке
	Async bool
	// Timeout на установку соединения. 0 - значение по умолчанию библиотеки.
	Timeout time.Duration
}

func (c Config) Validate() error {
	if c.TagPrefix == "" {
		return fmt.Errorf("fluent tag prefix is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("fluent port %d is out of range", c.Port)
	}
	return nil
}

// NewClient создает клиент для Fluent Bit.
// Пинга нет: ошибки соединения проявятся при первой отправке лога.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      cfg.Async,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent logger: %w", err)
	}
	return client, nil
}
