package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookVerifier(t *testing.T) {
	v := NewWebhookVerifier("shpss_secret")
	payload := []byte(`{"id":1,"domain":"test-shop.myshopify.com"}`)

	sig := v.Sign(payload)
	assert.True(t, v.Verify(payload, sig))
	assert.False(t, v.Verify([]byte(`{"id":2}`), sig))
	assert.False(t, v.Verify(payload, "not-base64!"))
	assert.False(t, v.Verify(payload, ""))
}

func TestWebhookVerifierDisabled(t *testing.T) {
	v := NewWebhookVerifier("")
	assert.False(t, v.Enabled())
	assert.True(t, v.Verify([]byte("anything"), ""))
}

func TestNormalizeShopDomain(t *testing.T) {
	assert.Equal(t, "test-shop.myshopify.com", NormalizeShopDomain(" https://Test-Shop.myshopify.com/ "))
	assert.Equal(t, "test-shop.myshopify.com", NormalizeShopDomain("test-shop.myshopify.com"))
}
