package handlers

import (
	"net/http"

	"badgr/internal/logger"
	"badgr/internal/services/shopify"
	"badgr/internal/store"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	store    store.Store
	logger   *logger.Logger
	verifier *shopify.WebhookVerifier
}

func NewWebhookHandler(s store.Store, logger *logger.Logger, verifier *shopify.WebhookVerifier) *WebhookHandler {
	return &WebhookHandler{
		store:    s,
		logger:   logger,
		verifier: verifier,
	}
}

// AppUninstalled drops the shop's configuration when the app is removed.
func (h *WebhookHandler) AppUninstalled(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read payload", err)
		return
	}

	if !h.verifier.Verify(payload, c.GetHeader(shopify.HeaderHmac)) {
		h.logger.Warn("Rejected webhook with invalid signature from %s", c.GetHeader(shopify.HeaderShopDomain))
		respondError(c, http.StatusUnauthorized, "Invalid webhook signature", nil)
		return
	}

	shopDomain := shopify.NormalizeShopDomain(c.GetHeader(shopify.HeaderShopDomain))
	if shopDomain == "" {
		respondError(c, http.StatusBadRequest, "Missing required headers", nil)
		return
	}

	if topic := c.GetHeader(shopify.HeaderTopic); topic != "" && topic != shopify.TopicAppUninstalled {
		h.logger.Debug("Unhandled webhook topic: %s", topic)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook received but not processed"})
		return
	}

	if err := h.store.DeleteByShopDomain(c.Request.Context(), shopDomain); err != nil {
		h.logger.Error("Failed to remove configuration for %s: %v", shopDomain, err)
		respondError(c, http.StatusInternalServerError, "Failed to process webhook", err)
		return
	}

	h.logger.Info("Removed widget configuration for uninstalled shop %s", shopDomain)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Widget configuration removed",
	})
}
