package port

import "catalog-service/internal/core/domain"

// QueryCachePort - кэш готовых страниц выдачи. Ключ обязан включать версию каталога.
type QueryCachePort interface {
	GetPage(key string) (domain.Page[domain.PropertySummary], bool)
	SetPage(key string, page domain.Page[domain.PropertySummary])
}
