package handlers

import (
	"errors"
	"io"
	"net/http"

	"badgr/internal/logger"
	"badgr/internal/models"
	"badgr/internal/store"

	"github.com/gin-gonic/gin"
)

const msgNotFound = "Widget configuration not found for this shop"

type WidgetHandler struct {
	store  store.Store
	logger *logger.Logger
}

func NewWidgetHandler(s store.Store, logger *logger.Logger) *WidgetHandler {
	return &WidgetHandler{
		store:  s,
		logger: logger,
	}
}

func (h *WidgetHandler) List(c *gin.Context) {
	configs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching widget configurations: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch widget configurations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    configs,
		"count":   len(configs),
	})
}

// Get resolves :shopId as a shop id first and a shop domain second.
func (h *WidgetHandler) Get(c *gin.Context) {
	shopID := c.Param("shopId")
	if shopID == "" {
		respondError(c, http.StatusBadRequest, "Shop ID or domain is required", nil)
		return
	}

	cfg, err := store.Lookup(c.Request.Context(), h.store, shopID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, msgNotFound, nil)
			return
		}
		h.logger.Error("Error fetching widget configuration: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch widget configuration", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cfg,
	})
}

func (h *WidgetHandler) Create(c *gin.Context) {
	var input models.WidgetInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := input.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	cfg, err := h.store.Upsert(c.Request.Context(), input.Configuration())
	if err != nil {
		h.logger.Error("Error creating widget configuration: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to create widget configuration", err)
		return
	}

	h.logger.Info("Saved widget configuration for shop %s", cfg.ShopID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    cfg,
		"message": "Widget configuration created successfully",
	})
}

func (h *WidgetHandler) Update(c *gin.Context) {
	shopID := c.Param("shopId")

	var patch models.WidgetPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if patch.IsEmpty() {
		respondError(c, http.StatusBadRequest, "Widget data is required", nil)
		return
	}
	if err := patch.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	cfg, err := h.store.Update(c.Request.Context(), shopID, patch)
	if err != nil {
		h.handleWriteError(c, err, "Failed to update widget configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cfg,
		"message": "Widget configuration updated successfully",
	})
}

func (h *WidgetHandler) Delete(c *gin.Context) {
	shopID := c.Param("shopId")

	if err := h.store.Delete(c.Request.Context(), shopID); err != nil {
		h.handleWriteError(c, err, "Failed to delete widget configuration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Widget configuration deleted successfully",
	})
}

func (h *WidgetHandler) Toggle(c *gin.Context) {
	shopID := c.Param("shopId")

	var request struct {
		Enabled *bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Enabled == nil {
		respondError(c, http.StatusBadRequest, "enabled field must be a boolean", nil)
		return
	}

	cfg, err := h.store.Update(c.Request.Context(), shopID, models.WidgetPatch{WidgetEnabled: request.Enabled})
	if err != nil {
		h.handleWriteError(c, err, "Failed to toggle widget status")
		return
	}

	state := "disabled"
	if *request.Enabled {
		state = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cfg,
		"message": "Widget " + state + " successfully",
	})
}

func (h *WidgetHandler) Stats(c *gin.Context) {
	configs, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching widget statistics: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch widget statistics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    models.ComputeStats(configs),
	})
}

func (h *WidgetHandler) handleWriteError(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, msgNotFound, nil)
		return
	}
	h.logger.Error("%s: %v", msg, err)
	respondError(c, http.StatusInternalServerError, msg, err)
}
