package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"badgr/internal/database"
	"badgr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore keeps configurations in Postgres or SQLite through gorm.
type GormStore struct {
	db      *gorm.DB
	dialect string
}

var _ Store = (*GormStore)(nil)

var upsertColumns = []string{
	"shop_domain",
	"widget_enabled",
	"bnpl_enabled",
	"logo_selection",
	"widget_placement",
	"enabled_providers",
	"custom_settings",
	"updated_at",
}

func NewGormStore(db *database.Database) *GormStore {
	return &GormStore{db: db.DB, dialect: db.Dialect}
}

func (s *GormStore) Backend() string {
	return s.dialect
}

func (s *GormStore) List(ctx context.Context) ([]models.WidgetConfiguration, error) {
	var configs []models.WidgetConfiguration
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("failed to list widget configurations: %w", err)
	}
	return configs, nil
}

func (s *GormStore) GetByShopID(ctx context.Context, shopID string) (*models.WidgetConfiguration, error) {
	return s.first(ctx, "shop_id = ?", shopID)
}

func (s *GormStore) GetByShopDomain(ctx context.Context, shopDomain string) (*models.WidgetConfiguration, error) {
	return s.first(ctx, "shop_domain = ?", shopDomain)
}

func (s *GormStore) first(ctx context.Context, query string, arg string) (*models.WidgetConfiguration, error) {
	var cfg models.WidgetConfiguration
	if err := s.db.WithContext(ctx).First(&cfg, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get widget configuration: %w", err)
	}
	return &cfg, nil
}

func (s *GormStore) Upsert(ctx context.Context, cfg *models.WidgetConfiguration) (*models.WidgetConfiguration, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shop_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(cfg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert widget configuration: %w", err)
	}
	// On conflict the stored row keeps its original id and created_at.
	return s.GetByShopID(ctx, cfg.ShopID)
}

func (s *GormStore) Update(ctx context.Context, shopID string, patch models.WidgetPatch) (*models.WidgetConfiguration, error) {
	cols := patch.Columns()
	cols["updated_at"] = time.Now().UTC()

	res := s.db.WithContext(ctx).
		Model(&models.WidgetConfiguration{}).
		Where("shop_id = ?", shopID).
		Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update widget configuration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetByShopID(ctx, shopID)
}

func (s *GormStore) Delete(ctx context.Context, shopID string) error {
	err := s.db.WithContext(ctx).Where("shop_id = ?", shopID).Delete(&models.WidgetConfiguration{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete widget configuration: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	err := s.db.WithContext(ctx).Where("shop_domain = ?", shopDomain).Delete(&models.WidgetConfiguration{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete widget configuration: %w", err)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
