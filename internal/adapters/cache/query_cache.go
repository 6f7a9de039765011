package cache

import (
	"time"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"

	"github.com/karlseguin/ccache/v3"
)

type Config struct {
	MaxSize int64
	TTL     time.Duration
}

// QueryCache - локальный LRU-кэш страниц выдачи на ccache.
// Инвалидация не нужна: ключи содержат версию каталога, устаревшие записи вытесняются по LRU/TTL.
type QueryCache struct {
	pages  *ccache.Cache[domain.Page[domain.PropertySummary]]
	ttl    time.Duration
	logger port.LoggerPort
}

func NewQueryCache(cfg Config, logger port.LoggerPort) *QueryCache {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1000
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}

	pages := ccache.New(ccache.Configure[domain.Page[domain.PropertySummary]]().MaxSize(cfg.MaxSize))

	logger.Info("Query cache initialized", port.Fields{"max_size": cfg.MaxSize, "ttl": cfg.TTL.String()})

	return &QueryCache{
		pages:  pages,
		ttl:    cfg.TTL,
		logger: logger,
	}
}

func (c *QueryCache) GetPage(key string) (domain.Page[domain.PropertySummary], bool) {
	item := c.pages.Get(key)
	if item == nil || item.Expired() {
		c.logger.Debug("Cache MISS", port.Fields{"key": key})
		return domain.Page[domain.PropertySummary]{}, false
	}
	c.logger.Debug("Cache HIT", port.Fields{"key": key})
	return item.Value(), true
}

func (c *QueryCache) SetPage(key string, page domain.Page[domain.PropertySummary]) {
	c.pages.Set(key, page, c.ttl)
}

// Close останавливает фоновую горутину ccache
func (c *QueryCache) Close() {
	c.pages.Stop()
}
