package constants

// Топология брокера для событий каталога
const (
	ListingsExchange     = "listings_exchange"
	ListingsExchangeType = "topic"
	ListingEventsQueue   = "listing_events"
	ListingEventsDLX     = "listings_dlx"

	RoutingKeyListingUpserted = "listing.upserted"
	RoutingKeyListingRemoved  = "listing.removed"

	ListingEventsMaxRetries = 3
)

// Заголовки сообщений
const (
	HeaderEventType    = "event-type"
	HeaderEventVersion = "event-version"
	HeaderTraceID      = "x-trace-id"
)

const (
	EventTypeListingUpserted = "ListingUpsertedEvent"
	EventTypeListingRemoved  = "ListingRemovedEvent"
	EventVersionV1           = "1.0.0"
)
