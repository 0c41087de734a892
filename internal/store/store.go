// Package store persists widget configurations, one row per shop.
package store

import (
	"context"
	"errors"

	"badgr/internal/models"
	"badgr/internal/services/shopify"
)

// ErrNotFound is returned when no configuration matches.
var ErrNotFound = errors.New("widget configuration not found")

type Store interface {
	// List returns every configuration, newest first.
	List(ctx context.Context) ([]models.WidgetConfiguration, error)
	GetByShopID(ctx context.Context, shopID string) (*models.WidgetConfiguration, error)
	GetByShopDomain(ctx context.Context, shopDomain string) (*models.WidgetConfiguration, error)
	// Upsert inserts cfg or overwrites the row with the same shop_id.
	Upsert(ctx context.Context, cfg *models.WidgetConfiguration) (*models.WidgetConfiguration, error)
	Update(ctx context.Context, shopID string, patch models.WidgetPatch) (*models.WidgetConfiguration, error)
	// Delete removes the shop's row. Deleting a missing row is not an error.
	Delete(ctx context.Context, shopID string) error
	DeleteByShopDomain(ctx context.Context, shopDomain string) error
	Ping(ctx context.Context) error
	// Backend names the implementation for health output.
	Backend() string
}

// Lookup resolves identifier as a shop_id first, then as a shop_domain.
// Domains are stored normalised, so the identifier is normalised too.
func Lookup(ctx context.Context, s Store, identifier string) (*models.WidgetConfiguration, error) {
	cfg, err := s.GetByShopID(ctx, identifier)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.GetByShopDomain(ctx, shopify.NormalizeShopDomain(identifier))
}
