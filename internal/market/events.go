package market

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventListingCreated       = "ListingCreated"
	EventListingStatusChanged = "ListingStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // listing id
	Payload       json.RawMessage `json:"payload"`
}

type ListingCreatedPayload struct {
	ListingID int64           `json:"listing_id"`
	SellerID  int64           `json:"seller_id"`
	GameID    int64           `json:"game_id"`
	Price     decimal.Decimal `json:"price"`
}

type ListingStatusChangedPayload struct {
	ListingID int64  `json:"listing_id"`
	GameID    int64  `json:"game_id"`
	From      Status `json:"from"`
	To        Status `json:"to"`
}
