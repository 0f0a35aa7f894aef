package domain

// Push event types emitted to WebSocket subscribers.
const (
	EventPriceUpdate = "price_update"
	EventNewToken    = "new_token"
)

// Event is the envelope broadcast over the push channel.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// PriceDelta is one significant price change between two successive
// publisher snapshots for the same token.
type PriceDelta struct {
	Address          string  `json:"address"`
	Ticker           string  `json:"ticker"`
	PriceUSD         float64 `json:"priceUsd"`
	PreviousPriceUSD float64 `json:"previousPriceUsd"`
	ChangePct        float64 `json:"changePct"`
	VolumeUSD        float64 `json:"volumeUsd"`
	UpdatedAt        int64   `json:"updatedAt"`
}
