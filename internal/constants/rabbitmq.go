package constants

const (
	CatalogExchange     = "catalog_exchange"
	CatalogExchangeType = "topic"

	PropertyUpsertQueue      = "catalog_property_upserts"
	PropertyUpsertRoutingKey = "catalog.properties.upsert"
	PropertySavedRoutingKey  = "catalog.properties.saved"

	PropertyUpsertRetryExchange = "catalog_property_upserts_retry_exchange"
	PropertyUpsertRetryQueue    = "catalog_property_upserts_retry_wait"
	PropertyUpsertFinalDLX      = "catalog_property_upserts_final_dlx"
	PropertyUpsertFinalDLQ      = "catalog_property_upserts_final_dlq"
	PropertyUpsertFinalDLQKey   = "final"
	PropertyUpsertRetryTTLMs    = 10000
	PropertyUpsertMaxRetries    = 3
)

// Заголовки сообщений
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"
)

const (
	PropertyUpsertEventType = "PropertyUpsertEvent"
	PropertySavedEventType  = "PropertySavedEvent"
	EventVersionV1          = "1.0.0"
)
