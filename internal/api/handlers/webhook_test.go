package handlers

import (
	"context"
	"net/http"
	"testing"

	"badgr/internal/services/shopify"
	"badgr/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookHeaders(payload []byte, domain string) map[string]string {
	return map[string]string{
		shopify.HeaderTopic:      shopify.TopicAppUninstalled,
		shopify.HeaderShopDomain: domain,
		shopify.HeaderHmac:       shopify.NewWebhookVerifier(testSecret).Sign(payload),
	}
}

func TestAppUninstalledRemovesConfiguration(t *testing.T) {
	s := store.NewMemoryStore()
	seed(t, s, defaultConfig())
	r := newTestRouter(s, &recordingPublisher{})

	payload := []byte(`{"id":1,"domain":"test-shop.myshopify.com"}`)
	w, body := doRequest(t, r, http.MethodPost, "/api/webhooks/app-uninstalled", payload, webhookHeaders(payload, "Test-Shop.myshopify.com"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	_, err := s.GetByShopID(context.Background(), testShopID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppUninstalledRemovesMixedCaseDomain(t *testing.T) {
	s := store.NewMemoryStore()
	r := newTestRouter(s, &recordingPublisher{})

	w, _ := doRequest(t, r, http.MethodPost, "/api/widgets", map[string]interface{}{
		"shop_id":     testShopID,
		"shop_domain": "Test-Shop.MyShopify.com",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := doRequest(t, r, http.MethodGet, "/api/widgets/Test-Shop.MyShopify.com", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testShopDomain, body["data"].(map[string]interface{})["shop_domain"])

	payload := []byte(`{}`)
	w, _ = doRequest(t, r, http.MethodPost, "/api/webhooks/app-uninstalled", payload, webhookHeaders(payload, testShopDomain))
	require.Equal(t, http.StatusOK, w.Code)

	_, err := s.GetByShopID(context.Background(), testShopID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAppUninstalledRejectsBadSignature(t *testing.T) {
	s := store.NewMemoryStore()
	seed(t, s, defaultConfig())
	r := newTestRouter(s, &recordingPublisher{})

	payload := []byte(`{"id":1}`)
	headers := webhookHeaders(payload, testShopDomain)
	headers[shopify.HeaderHmac] = shopify.NewWebhookVerifier("other").Sign(payload)

	w, body := doRequest(t, r, http.MethodPost, "/api/webhooks/app-uninstalled", payload, headers)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid webhook signature", body["error"])

	_, err := s.GetByShopID(context.Background(), testShopID)
	assert.NoError(t, err)
}

func TestAppUninstalledRequiresShopDomain(t *testing.T) {
	r := newTestRouter(store.NewMemoryStore(), &recordingPublisher{})

	payload := []byte(`{}`)
	w, body := doRequest(t, r, http.MethodPost, "/api/webhooks/app-uninstalled", payload, webhookHeaders(payload, ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required headers", body["error"])
}

func TestAppUninstalledIgnoresOtherTopics(t *testing.T) {
	s := store.NewMemoryStore()
	seed(t, s, defaultConfig())
	r := newTestRouter(s, &recordingPublisher{})

	payload := []byte(`{}`)
	headers := webhookHeaders(payload, testShopDomain)
	headers[shopify.HeaderTopic] = "orders/create"

	w, _ := doRequest(t, r, http.MethodPost, "/api/webhooks/app-uninstalled", payload, headers)
	assert.Equal(t, http.StatusOK, w.Code)

	_, err := s.GetByShopID(context.Background(), testShopID)
	assert.NoError(t, err)
}

func TestAppUninstalledStoreFailure(t *testing.T) {
	r := newTestRouter(brokenStore{store.NewMemoryStore()}, &recordingPublisher{})

	payload := []byte(`{}`)
	w, body := doRequest(t, r, http.MethodPost, "/api/webhooks/app-uninstalled", payload, webhookHeaders(payload, testShopDomain))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to process webhook", body["error"])
}
