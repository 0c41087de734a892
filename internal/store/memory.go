package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"badgr/internal/models"

	"github.com/google/uuid"
)

// MemoryStore keeps configurations in process memory. It backs the
// "memory://" database URL used for demos and handler tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byShop  map[string]models.WidgetConfiguration
	now     func() time.Time
	pingErr error
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byShop: map[string]models.WidgetConfiguration{},
		now:    time.Now,
	}
}

// FailPing makes Ping return err; nil restores normal behaviour.
func (s *MemoryStore) FailPing(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pingErr = err
}

func (s *MemoryStore) Backend() string {
	return "memory"
}

func (s *MemoryStore) List(ctx context.Context) ([]models.WidgetConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WidgetConfiguration, 0, len(s.byShop))
	for _, cfg := range s.byShop {
		out = append(out, cfg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ShopID < out[j].ShopID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetByShopID(ctx context.Context, shopID string) (*models.WidgetConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.byShop[shopID]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (s *MemoryStore) GetByShopDomain(ctx context.Context, shopDomain string) (*models.WidgetConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cfg := range s.byShop {
		if cfg.ShopDomain == shopDomain {
			cfg := cfg
			return &cfg, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Upsert(ctx context.Context, cfg *models.WidgetConfiguration) (*models.WidgetConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	row := *cfg
	if existing, ok := s.byShop[cfg.ShopID]; ok {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	} else {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	s.byShop[row.ShopID] = row
	return &row, nil
}

func (s *MemoryStore) Update(ctx context.Context, shopID string, patch models.WidgetPatch) (*models.WidgetConfiguration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byShop[shopID]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&row)
	row.UpdatedAt = s.now().UTC()
	s.byShop[shopID] = row
	return &row, nil
}

func (s *MemoryStore) Delete(ctx context.Context, shopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byShop, shopID)
	return nil
}

func (s *MemoryStore) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for shopID, cfg := range s.byShop {
		if cfg.ShopDomain == shopDomain {
			delete(s.byShop, shopID)
		}
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pingErr
}
