package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"badgr/internal/bnpl"
	"badgr/internal/logger"
	"badgr/internal/services/shopify"
	"badgr/internal/store"

	"github.com/gin-gonic/gin"
)

var errInvalidPrice = errors.New("price must be a number")

// Price accepts a JSON number or a numeric string; themes render both.
type Price struct {
	Value float64
	Set   bool
}

func (p *Price) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errInvalidPrice
		}
		n = json.Number(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errInvalidPrice
	}
	p.Value, p.Set = v, true
	return nil
}

type OptionsRequest struct {
	ProductID        string    `json:"productId"`
	Price            Price     `json:"price"`
	Currency         string    `json:"currency"`
	EnabledProviders *[]string `json:"enabledProviders"`
	Placement        string    `json:"placement"`
}

type OptionsHandler struct {
	store     store.Store
	logger    *logger.Logger
	assetPath string
}

func NewOptionsHandler(s store.Store, logger *logger.Logger, assetPath string) *OptionsHandler {
	return &OptionsHandler{
		store:     s,
		logger:    logger,
		assetPath: assetPath,
	}
}

// Generate returns the BNPL options for one product on the storefront.
func (h *OptionsHandler) Generate(c *gin.Context) {
	widgetID := c.Param("widgetId")
	shopDomain := c.GetHeader(shopify.HeaderShopDomain)

	var request OptionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		if errors.Is(err, errInvalidPrice) {
			respondError(c, http.StatusBadRequest, errInvalidPrice.Error(), nil)
			return
		}
		respondError(c, http.StatusBadRequest, "productId and price are required", err)
		return
	}
	if request.ProductID == "" || !request.Price.Set {
		respondError(c, http.StatusBadRequest, "productId and price are required", nil)
		return
	}
	if request.Price.Value <= 0 {
		respondError(c, http.StatusBadRequest, "price must be a positive number", nil)
		return
	}

	currency := request.Currency
	if currency == "" {
		currency = bnpl.DefaultCurrency
	}

	var providers []string
	if request.EnabledProviders != nil {
		providers = *request.EnabledProviders
	} else {
		providers = h.configuredProviders(c, widgetID, shopDomain)
	}

	options := bnpl.Options(bnpl.Request{
		ProductID:        request.ProductID,
		Price:            request.Price.Value,
		Currency:         currency,
		EnabledProviders: providers,
		ShopDomain:       shopDomain,
		AssetPath:        h.assetPath,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"options":   options,
		"productId": request.ProductID,
		"price":     request.Price.Value,
		"currency":  currency,
		"widgetId":  widgetID,
	})
}

// configuredProviders falls back to the shop's saved provider list, or the
// whole catalog when the shop has no configuration.
func (h *OptionsHandler) configuredProviders(c *gin.Context, widgetID, shopDomain string) []string {
	identifier := shopDomain
	if identifier == "" {
		identifier = widgetID
	}

	cfg, err := store.Lookup(c.Request.Context(), h.store, identifier)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Warn("Falling back to all providers for %s: %v", identifier, err)
		}
		return bnpl.Keys()
	}
	if !cfg.WidgetEnabled || !cfg.BNPLEnabled {
		return nil
	}
	return cfg.EnabledProviders
}
