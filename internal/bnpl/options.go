package bnpl

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency  = "USD"
	DefaultAssetPath = "/apps/badgr/assets"

	termsText = "Interest-free installments"
)

// Request is the input to Options.
type Request struct {
	ProductID        string
	Price            float64
	Currency         string
	EnabledProviders []string
	ShopDomain       string
	// AssetPath overrides DefaultAssetPath.
	AssetPath string
}

// Option is a single eligible payment option rendered by the storefront widget.
type Option struct {
	Provider        string `json:"provider"`
	DisplayName     string `json:"displayName"`
	LogoURL         string `json:"logoUrl"`
	InstallmentText string `json:"installmentText"`
	Terms           string `json:"terms"`
	IsEligible      bool   `json:"isEligible"`
	RedirectURL     string `json:"redirectUrl"`
}

// Options returns the eligible providers of req.EnabledProviders, in request
// order. Unknown keys and providers whose bounds exclude the price are
// dropped. The result is never nil.
func Options(req Request) []Option {
	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	assetPath := req.AssetPath
	if assetPath == "" {
		assetPath = DefaultAssetPath
	}

	options := make([]Option, 0, len(req.EnabledProviders))
	for _, key := range req.EnabledProviders {
		provider, ok := catalog[key]
		if !ok || !provider.Eligible(req.Price) {
			continue
		}

		options = append(options, Option{
			Provider:        provider.Key,
			DisplayName:     provider.DisplayName,
			LogoURL:         logoURL(provider, req.ShopDomain, assetPath),
			InstallmentText: FormatInstallmentText(req.Price, provider.Installments, currency),
			Terms:           termsText,
			IsEligible:      true,
			RedirectURL:     RedirectURL(provider, req.ProductID, req.Price, currency, req.ShopDomain),
		})
	}
	return options
}

// FormatInstallmentText renders "{n} payments of {symbol}{amount}". Only USD
// carries a symbol.
func FormatInstallmentText(price float64, installments int, currency string) string {
	symbol := ""
	if currency == "USD" {
		symbol = "$"
	}
	return fmt.Sprintf("%d payments of %s%s", installments, symbol, installmentAmount(price, installments))
}

// installmentAmount rounds the share half-up on its exact binary value, so
// 100.5/4 (exactly 25.125) renders as 25.13 while 99.99/6 (just under
// 16.665) renders as 16.66.
func installmentAmount(price float64, installments int) string {
	share := price / float64(installments)
	if math.IsNaN(share) || math.IsInf(share, 0) {
		return strconv.FormatFloat(share, 'f', 2, 64)
	}
	exact := new(big.Float).SetFloat64(share).Text('f', 1074)
	return decimal.RequireFromString(exact).StringFixed(2)
}

// LogoURL returns the provider logo location, absolute when shopDomain is set.
func LogoURL(provider Provider, shopDomain string) string {
	return logoURL(provider, shopDomain, DefaultAssetPath)
}

func logoURL(provider Provider, shopDomain, assetPath string) string {
	prefix := ""
	if shopDomain != "" {
		prefix = "https://" + shopDomain
	}
	return prefix + strings.TrimRight(assetPath, "/") + "/" + provider.LogoFile()
}

// RedirectURL builds the provider checkout link. With no shop domain the
// return and cancel URLs are prefixed with the literal "null"; storefront
// integrations rely on that shape.
func RedirectURL(provider Provider, productID string, price float64, currency, shopDomain string) string {
	domainPrefix := shopDomain
	if domainPrefix == "" {
		domainPrefix = "null"
	}

	params := [][2]string{
		{"amount", strconv.FormatFloat(price, 'f', -1, 64)},
		{"currency", currency},
		{"product_id", productID},
		{"shop_domain", shopDomain},
		{"return_url", domainPrefix + "/checkout/complete"},
		{"cancel_url", domainPrefix + "/cart"},
	}

	var b strings.Builder
	b.WriteString(provider.CheckoutURL)
	b.WriteByte('?')
	for i, kv := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(formEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(formEscape(kv[1]))
	}
	return b.String()
}

// formEscaper adjusts url.QueryEscape to the WHATWG form encoding used by
// browsers: "*" stays literal and "~" is escaped.
var formEscaper = strings.NewReplacer("~", "%7E", "%2A", "*")

func formEscape(s string) string {
	return formEscaper.Replace(url.QueryEscape(s))
}
