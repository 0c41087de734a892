package handlers

import (
	"context"
	"net/http"
	"time"

	"badgr/internal/events"
	"badgr/internal/logger"
	"badgr/internal/models"
	"badgr/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

const publishTimeout = 2 * time.Second

type TrackHandler struct {
	publisher events.Publisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewTrackHandler(publisher events.Publisher, logger *logger.Logger) *TrackHandler {
	return &TrackHandler{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Track never fails the caller; analytics are best effort.
func (h *TrackHandler) Track(c *gin.Context) {
	body, _ := c.GetRawData()

	event, ok := models.ParseTrackEvent(body, c.GetHeader(shopify.HeaderShopDomain), h.now())
	if !ok {
		h.logger.Debug("Received unparseable tracking payload (%d bytes)", len(body))
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), publishTimeout)
	defer cancel()
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Error("Failed to publish widget event: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Event tracked successfully",
	})
}
