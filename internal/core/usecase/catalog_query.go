package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"catalog-service/internal/core/domain"
	"catalog-service/internal/core/port"
	"catalog-service/internal/core/query"
)

// catalogQuery - общий конвейер filter -> sort -> paginate -> map для списка и поиска
type catalogQuery struct {
	storage port.PropertyStoragePort
	cache   port.QueryCachePort
}

type pageKey struct {
	Kind     string                 `json:"kind"`
	Version  uint64                 `json:"version"`
	Criteria *domain.SearchCriteria `json:"criteria,omitempty"`
	Sorting  domain.Sorting         `json:"sorting"`
	Page     int                    `json:"page"`
	Size     int                    `json:"size"`
}

func (k pageKey) String() string {
	raw, err := json.Marshal(k)
	if err != nil {
		return fmt.Sprintf("%+v", k)
	}
	return string(raw)
}

// run возвращает страницу и признак того, что она взята из кэша
func (q catalogQuery) run(ctx context.Context, kind string, criteria *domain.SearchCriteria, sorting domain.Sorting, page, size int) (domain.Page[domain.PropertySummary], bool) {
	key := pageKey{Kind: kind, Criteria: criteria, Sorting: sorting, Page: page, Size: size}

	if q.cache != nil {
		key.Version = q.storage.Version()
		if cached, ok := q.cache.GetPage(key.String()); ok {
			return cached, true
		}
	}

	// ключ кэша берется по версии снимка, а не по версии на момент промаха
	records, version := q.storage.Snapshot(ctx)
	if criteria != nil {
		records = query.Filter(records, *criteria)
	}
	query.Sort(records, sorting)
	result := query.MapPage(query.Paginate(records, page, size), ToSummary)

	if q.cache != nil {
		key.Version = version
		q.cache.SetPage(key.String(), result)
	}
	return result, false
}
