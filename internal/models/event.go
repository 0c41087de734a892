package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TrackEvent is a storefront analytics beacon. Only ID and ReceivedAt are
// set by the server; every other field is optional.
type TrackEvent struct {
	ID         string                 `json:"id"`
	Event      string                 `json:"event"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  string                 `json:"timestamp,omitempty"`
	URL        string                 `json:"url,omitempty"`
	UserAgent  string                 `json:"userAgent,omitempty"`
	ShopDomain string                 `json:"shopDomain,omitempty"`
	ReceivedAt time.Time              `json:"received_at"`
}

// ParseTrackEvent decodes a beacon body. Malformed or empty bodies yield an
// event with only the server fields set; the second return reports whether
// the body was usable.
func ParseTrackEvent(body []byte, shopDomain string, now time.Time) (TrackEvent, bool) {
	var event TrackEvent
	ok := len(body) > 0 && json.Unmarshal(body, &event) == nil

	event.ID = uuid.New().String()
	event.ReceivedAt = now.UTC()
	if event.ShopDomain == "" {
		event.ShopDomain = shopDomain
	}
	if event.Event == "" {
		event.Event = "unknown"
	}
	return event, ok
}
