package handlers

import (
	"context"
	"net/http"
	"time"

	"badgr/internal/store"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "BADGR API Server is running!",
		"version": Version,
		"endpoints": gin.H{
			"health":       "/health",
			"testDb":       "/api/test-db",
			"widgets":      "/api/widgets",
			"widgetByShop": "/api/widgets/:shopId",
		},
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "BADGR API",
	})
}

// TestDB reports whether the configuration store is reachable.
func (h *HealthHandler) TestDB(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "connected"
	body := gin.H{
		"backend":   h.store.Backend(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.store.Ping(ctx); err != nil {
		status = "disconnected"
		body["message"] = err.Error()
	}
	body["database"] = status

	c.JSON(http.StatusOK, body)
}
