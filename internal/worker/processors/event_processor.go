package processors

import (
	"sync"
	"time"

	"badgr/internal/bnpl"
	"badgr/internal/logger"
	"badgr/internal/models"
)

// EventProcessor aggregates storefront widget events in memory.
type EventProcessor struct {
	logger *logger.Logger

	mu                 sync.Mutex
	total              int
	byEvent            map[string]int
	byShop             map[string]int
	providerSelections map[string]int
	lastEventAt        time.Time
}

// Stats is a point-in-time copy of the aggregated counters.
type Stats struct {
	Total              int            `json:"total"`
	ByEvent            map[string]int `json:"by_event"`
	ByShop             map[string]int `json:"by_shop"`
	ProviderSelections map[string]int `json:"provider_selections"`
	LastEventAt        time.Time      `json:"last_event_at"`
}

func NewEventProcessor(logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		logger:             logger,
		byEvent:            map[string]int{},
		byShop:             map[string]int{},
		providerSelections: map[string]int{},
	}
}

func (ep *EventProcessor) Process(event models.TrackEvent) error {
	ep.logger.Debug("Processing event: %s from %s", event.Event, event.ShopDomain)

	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.total++
	ep.byEvent[event.Event]++
	if event.ShopDomain != "" {
		ep.byShop[event.ShopDomain]++
	}
	if event.Event == "option_selected" {
		if provider, ok := event.Data["provider"].(string); ok {
			if _, known := bnpl.Lookup(provider); known {
				ep.providerSelections[provider]++
			}
		}
	}
	if event.ReceivedAt.After(ep.lastEventAt) {
		ep.lastEventAt = event.ReceivedAt
	}
	return nil
}

func (ep *EventProcessor) Snapshot() Stats {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	return Stats{
		Total:              ep.total,
		ByEvent:            copyCounts(ep.byEvent),
		ByShop:             copyCounts(ep.byShop),
		ProviderSelections: copyCounts(ep.providerSelections),
		LastEventAt:        ep.lastEventAt,
	}
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
