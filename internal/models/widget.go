package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"badgr/internal/services/shopify"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TableWidgetConfigurations is shared by the SQL and Supabase stores.
const TableWidgetConfigurations = "widget_configurations"

type WidgetConfiguration struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ShopID           string     `json:"shop_id" gorm:"uniqueIndex;not null"`
	ShopDomain       string     `json:"shop_domain" gorm:"index;not null"`
	WidgetEnabled    bool       `json:"widget_enabled" gorm:"not null"`
	BNPLEnabled      bool       `json:"bnpl_enabled" gorm:"column:bnpl_enabled;not null"`
	LogoSelection    string     `json:"logo_selection" gorm:"not null"`
	WidgetPlacement  Placement  `json:"widget_placement" gorm:"not null"`
	EnabledProviders StringList `json:"enabled_providers"`
	CustomSettings   JSONMap    `json:"custom_settings"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (WidgetConfiguration) TableName() string {
	return TableWidgetConfigurations
}

func (w *WidgetConfiguration) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return nil
}

// Defaults applied when a create request leaves a field out.
const (
	DefaultLogoSelection = "default"
)

var DefaultEnabledProviders = []string{"klarna", "afterpay"}

// WidgetInput is the create payload. Pointer fields distinguish "absent"
// from the zero value so defaults can be applied.
type WidgetInput struct {
	ShopID           string                 `json:"shop_id"`
	ShopDomain       string                 `json:"shop_domain"`
	WidgetEnabled    *bool                  `json:"widget_enabled"`
	BNPLEnabled      *bool                  `json:"bnpl_enabled"`
	LogoSelection    *string                `json:"logo_selection"`
	WidgetPlacement  *string                `json:"widget_placement"`
	EnabledProviders []string               `json:"enabled_providers"`
	CustomSettings   map[string]interface{} `json:"custom_settings"`
}

// Validate checks required fields and enumerations.
func (in WidgetInput) Validate() error {
	if in.ShopID == "" || shopify.NormalizeShopDomain(in.ShopDomain) == "" {
		return &ValidationError{Message: "shop_id and shop_domain are required"}
	}
	if in.WidgetPlacement != nil {
		if _, err := ParsePlacement(*in.WidgetPlacement); err != nil {
			return err
		}
	}
	return validateProviders(in.EnabledProviders)
}

// Configuration builds the row to upsert, filling in defaults.
func (in WidgetInput) Configuration() *WidgetConfiguration {
	cfg := &WidgetConfiguration{
		ShopID:           in.ShopID,
		ShopDomain:       shopify.NormalizeShopDomain(in.ShopDomain),
		WidgetEnabled:    true,
		BNPLEnabled:      true,
		LogoSelection:    DefaultLogoSelection,
		WidgetPlacement:  DefaultPlacement,
		EnabledProviders: StringList(append([]string(nil), DefaultEnabledProviders...)),
		CustomSettings:   JSONMap{},
	}
	if in.WidgetEnabled != nil {
		cfg.WidgetEnabled = *in.WidgetEnabled
	}
	if in.BNPLEnabled != nil {
		cfg.BNPLEnabled = *in.BNPLEnabled
	}
	if in.LogoSelection != nil {
		cfg.LogoSelection = *in.LogoSelection
	}
	if in.WidgetPlacement != nil {
		cfg.WidgetPlacement = Placement(*in.WidgetPlacement)
	}
	if in.EnabledProviders != nil {
		cfg.EnabledProviders = StringList(in.EnabledProviders)
	}
	if in.CustomSettings != nil {
		cfg.CustomSettings = JSONMap(in.CustomSettings)
	}
	return cfg
}

// WidgetPatch is a partial update. shop_id, id and created_at are not
// updatable and are ignored when present in the request body.
type WidgetPatch struct {
	ShopDomain       *string                `json:"shop_domain"`
	WidgetEnabled    *bool                  `json:"widget_enabled"`
	BNPLEnabled      *bool                  `json:"bnpl_enabled"`
	LogoSelection    *string                `json:"logo_selection"`
	WidgetPlacement  *string                `json:"widget_placement"`
	EnabledProviders *[]string              `json:"enabled_providers"`
	CustomSettings   map[string]interface{} `json:"custom_settings"`
}

func (p WidgetPatch) Validate() error {
	if p.WidgetPlacement != nil && *p.WidgetPlacement != "" {
		if _, err := ParsePlacement(*p.WidgetPlacement); err != nil {
			return err
		}
	}
	if p.EnabledProviders != nil {
		return validateProviders(*p.EnabledProviders)
	}
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p WidgetPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// Columns maps the set fields to their column names.
func (p WidgetPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.ShopDomain != nil {
		cols["shop_domain"] = shopify.NormalizeShopDomain(*p.ShopDomain)
	}
	if p.WidgetEnabled != nil {
		cols["widget_enabled"] = *p.WidgetEnabled
	}
	if p.BNPLEnabled != nil {
		cols["bnpl_enabled"] = *p.BNPLEnabled
	}
	if p.LogoSelection != nil {
		cols["logo_selection"] = *p.LogoSelection
	}
	if p.WidgetPlacement != nil && *p.WidgetPlacement != "" {
		cols["widget_placement"] = Placement(*p.WidgetPlacement)
	}
	if p.EnabledProviders != nil {
		cols["enabled_providers"] = StringList(*p.EnabledProviders)
	}
	if p.CustomSettings != nil {
		cols["custom_settings"] = JSONMap(p.CustomSettings)
	}
	return cols
}

// Apply merges the patch into cfg in place.
func (p WidgetPatch) Apply(cfg *WidgetConfiguration) {
	if p.ShopDomain != nil {
		cfg.ShopDomain = shopify.NormalizeShopDomain(*p.ShopDomain)
	}
	if p.WidgetEnabled != nil {
		cfg.WidgetEnabled = *p.WidgetEnabled
	}
	if p.BNPLEnabled != nil {
		cfg.BNPLEnabled = *p.BNPLEnabled
	}
	if p.LogoSelection != nil {
		cfg.LogoSelection = *p.LogoSelection
	}
	if p.WidgetPlacement != nil && *p.WidgetPlacement != "" {
		cfg.WidgetPlacement = Placement(*p.WidgetPlacement)
	}
	if p.EnabledProviders != nil {
		cfg.EnabledProviders = StringList(*p.EnabledProviders)
	}
	if p.CustomSettings != nil {
		cfg.CustomSettings = JSONMap(p.CustomSettings)
	}
}

// WidgetStats summarises every stored configuration.
type WidgetStats struct {
	Total          int            `json:"total"`
	Enabled        int            `json:"enabled"`
	Disabled       int            `json:"disabled"`
	BNPLEnabled    int            `json:"bnpl_enabled"`
	LogoUsage      map[string]int `json:"logo_usage"`
	PlacementUsage map[string]int `json:"placement_usage"`
}

func ComputeStats(configs []WidgetConfiguration) WidgetStats {
	stats := WidgetStats{
		Total:          len(configs),
		LogoUsage:      map[string]int{},
		PlacementUsage: map[string]int{},
	}
	for _, cfg := range configs {
		if cfg.WidgetEnabled {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
		if cfg.BNPLEnabled {
			stats.BNPLEnabled++
		}
		stats.LogoUsage[cfg.LogoSelection]++
		stats.PlacementUsage[string(cfg.WidgetPlacement)]++
	}
	return stats
}

// StringList is stored as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil || b == nil {
		*l = nil
		return err
	}
	return json.Unmarshal(b, (*[]string)(l))
}

// JSONMap is stored as a JSON object.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(src interface{}) error {
	b, err := jsonBytes(src)
	if err != nil || b == nil {
		*m = nil
		return err
	}
	return json.Unmarshal(b, (*map[string]interface{})(m))
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", src)
	}
}
