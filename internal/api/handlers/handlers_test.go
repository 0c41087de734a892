package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"badgr/internal/events"
	"badgr/internal/logger"
	"badgr/internal/models"
	"badgr/internal/services/shopify"
	"badgr/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testShopID     = "shop-123"
	testShopDomain = "test-shop.myshopify.com"
	testSecret     = "hush"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.TrackEvent
	err    error
}

var _ events.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(ctx context.Context, event models.TrackEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

// brokenStore fails every call the way an unreachable database would.
type brokenStore struct {
	*store.MemoryStore
}

var errBroken = errors.New("connection refused")

func (brokenStore) List(ctx context.Context) ([]models.WidgetConfiguration, error) {
	return nil, errBroken
}

func (brokenStore) GetByShopID(ctx context.Context, shopID string) (*models.WidgetConfiguration, error) {
	return nil, errBroken
}

func (brokenStore) GetByShopDomain(ctx context.Context, shopDomain string) (*models.WidgetConfiguration, error) {
	return nil, errBroken
}

func (brokenStore) Upsert(ctx context.Context, cfg *models.WidgetConfiguration) (*models.WidgetConfiguration, error) {
	return nil, errBroken
}

func (brokenStore) Update(ctx context.Context, shopID string, patch models.WidgetPatch) (*models.WidgetConfiguration, error) {
	return nil, errBroken
}

func (brokenStore) DeleteByShopDomain(ctx context.Context, shopDomain string) error {
	return errBroken
}

func newTestRouter(s store.Store, pub events.Publisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	health := NewHealthHandler(s)
	widgets := NewWidgetHandler(s, log)
	options := NewOptionsHandler(s, log, "")
	track := NewTrackHandler(pub, log)
	webhooks := NewWebhookHandler(s, log, shopify.NewWebhookVerifier(testSecret))

	r := gin.New()
	r.GET("/", health.Root)
	r.GET("/health", health.Health)
	r.GET("/api/test-db", health.TestDB)
	r.GET("/api/widgets", widgets.List)
	r.POST("/api/widgets", widgets.Create)
	r.GET("/api/widgets/stats/summary", widgets.Stats)
	r.POST("/api/widgets/track", track.Track)
	r.GET("/api/widgets/:shopId", widgets.Get)
	r.PUT("/api/widgets/:shopId", widgets.Update)
	r.DELETE("/api/widgets/:shopId", widgets.Delete)
	r.PATCH("/api/widgets/:shopId/toggle", widgets.Toggle)
	r.POST("/api/widgets/:widgetId/options", options.Generate)
	r.POST("/api/webhooks/app-uninstalled", webhooks.AppUninstalled)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func seed(t *testing.T, s store.Store, cfg models.WidgetConfiguration) *models.WidgetConfiguration {
	t.Helper()
	saved, err := s.Upsert(context.Background(), &cfg)
	require.NoError(t, err)
	return saved
}

func defaultConfig() models.WidgetConfiguration {
	return models.WidgetConfiguration{
		ShopID:           testShopID,
		ShopDomain:       testShopDomain,
		WidgetEnabled:    true,
		BNPLEnabled:      true,
		LogoSelection:    models.DefaultLogoSelection,
		WidgetPlacement:  models.DefaultPlacement,
		EnabledProviders: models.StringList{"klarna", "afterpay"},
		CustomSettings:   models.JSONMap{},
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := store.NewMemoryStore()
	r := newTestRouter(s, &recordingPublisher{})

	w, body := doRequest(t, r, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BADGR API Server is running!", body["message"])
	assert.Equal(t, Version, body["version"])
	assert.Contains(t, body, "endpoints")

	w, body = doRequest(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "BADGR API", body["service"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestTestDB(t *testing.T) {
	s := store.NewMemoryStore()
	r := newTestRouter(s, &recordingPublisher{})

	w, body := doRequest(t, r, http.MethodGet, "/api/test-db", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "memory", body["backend"])

	s.FailPing(errBroken)
	w, body = doRequest(t, r, http.MethodGet, "/api/test-db", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "disconnected", body["database"])
	assert.Equal(t, errBroken.Error(), body["message"])
}
