package store

import (
	"context"
	"fmt"
	"time"

	"badgr/internal/models"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// SupabaseStore talks to the managed project's PostgREST endpoint. The
// postgrest client does not take a context, so ctx is only checked before
// each call.
type SupabaseStore struct {
	client *supabase.Client
}

var _ Store = (*SupabaseStore)(nil)

func NewSupabaseStore(url, key string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) Backend() string {
	return "supabase"
}

func (s *SupabaseStore) List(ctx context.Context) ([]models.WidgetConfiguration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var configs []models.WidgetConfiguration
	_, err := s.client.From(models.TableWidgetConfigurations).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&configs)
	if err != nil {
		return nil, fmt.Errorf("failed to list widget configurations: %w", err)
	}
	if configs == nil {
		configs = []models.WidgetConfiguration{}
	}
	return configs, nil
}

func (s *SupabaseStore) GetByShopID(ctx context.Context, shopID string) (*models.WidgetConfiguration, error) {
	return s.first(ctx, "shop_id", shopID)
}

func (s *SupabaseStore) GetByShopDomain(ctx context.Context, shopDomain string) (*models.WidgetConfiguration, error) {
	return s.first(ctx, "shop_domain", shopDomain)
}

func (s *SupabaseStore) first(ctx context.Context, column, value string) (*models.WidgetConfiguration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []models.WidgetConfiguration
	_, err := s.client.From(models.TableWidgetConfigurations).
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get widget configuration: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *SupabaseStore) Upsert(ctx context.Context, cfg *models.WidgetConfiguration) (*models.WidgetConfiguration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := map[string]interface{}{
		"shop_id":           cfg.ShopID,
		"shop_domain":       cfg.ShopDomain,
		"widget_enabled":    cfg.WidgetEnabled,
		"bnpl_enabled":      cfg.BNPLEnabled,
		"logo_selection":    cfg.LogoSelection,
		"widget_placement":  cfg.WidgetPlacement,
		"enabled_providers": cfg.EnabledProviders,
		"custom_settings":   cfg.CustomSettings,
		"updated_at":        time.Now().UTC(),
	}

	var rows []models.WidgetConfiguration
	_, err := s.client.From(models.TableWidgetConfigurations).
		Upsert(payload, "shop_id", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert widget configuration: %w", err)
	}
	if len(rows) == 0 {
		return s.GetByShopID(ctx, cfg.ShopID)
	}
	return &rows[0], nil
}

func (s *SupabaseStore) Update(ctx context.Context, shopID string, patch models.WidgetPatch) (*models.WidgetConfiguration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cols := patch.Columns()
	cols["updated_at"] = time.Now().UTC()

	var rows []models.WidgetConfiguration
	_, err := s.client.From(models.TableWidgetConfigurations).
		Update(cols, "representation", "").
		Eq("shop_id", shopID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to update widget configuration: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (s *SupabaseStore) Delete(ctx context.Context, shopID string) error {
	return s.deleteWhere(ctx, "shop_id", shopID)
}

func (s *SupabaseStore) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	return s.deleteWhere(ctx, "shop_domain", shopDomain)
}

func (s *SupabaseStore) deleteWhere(ctx context.Context, column, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(models.TableWidgetConfigurations).
		Delete("minimal", "").
		Eq(column, value).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete widget configuration: %w", err)
	}
	return nil
}

func (s *SupabaseStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := s.client.From(models.TableWidgetConfigurations).
		Select("id", "exact", true).
		Limit(1, "").
		Execute()
	if err != nil {
		return fmt.Errorf("supabase connection failed: %w", err)
	}
	return nil
}
