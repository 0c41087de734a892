package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Webhook headers sent by Shopify.
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
	HeaderHmac       = "X-Shopify-Hmac-Sha256"
)

const TopicAppUninstalled = "app/uninstalled"

type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Enabled reports whether a shared secret is configured. Without one,
// signatures are not checked.
func (v *WebhookVerifier) Enabled() bool {
	return len(v.secret) > 0
}

// Verify checks the base64 HMAC-SHA256 of payload against signature.
func (v *WebhookVerifier) Verify(payload []byte, signature string) bool {
	if !v.Enabled() {
		return true
	}
	expected, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(expected) == 0 {
		return false
	}
	return hmac.Equal(expected, v.sign(payload))
}

// Sign returns the base64 signature Shopify would send for payload.
func (v *WebhookVerifier) Sign(payload []byte) string {
	return base64.StdEncoding.EncodeToString(v.sign(payload))
}

func (v *WebhookVerifier) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}

// NormalizeShopDomain lowercases and strips scheme and trailing slashes.
func NormalizeShopDomain(domain string) string {
	domain = strings.TrimSpace(strings.ToLower(domain))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}
