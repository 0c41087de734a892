// Package bnpl holds the Buy Now Pay Later provider catalog and the
// eligibility rules used to build storefront payment options.
package bnpl

import "strings"

// Provider describes one BNPL service the widget can advertise.
type Provider struct {
	Key          string  `json:"key"`
	DisplayName  string  `json:"displayName"`
	Installments int     `json:"installments"`
	MinAmount    float64 `json:"minAmount"`
	MaxAmount    float64 `json:"maxAmount"`
	CheckoutURL  string  `json:"checkoutUrl"`
}

// Provider keys.
const (
	Klarna       = "klarna"
	Afterpay     = "afterpay"
	Affirm       = "affirm"
	Sezzle       = "sezzle"
	Zip          = "zip"
	PayPalCredit = "paypal_credit"
)

var catalogOrder = []string{Klarna, Afterpay, Affirm, Sezzle, Zip, PayPalCredit}

var catalog = map[string]Provider{
	Klarna: {
		Key:          Klarna,
		DisplayName:  "Klarna",
		Installments: 4,
		MinAmount:    1,
		MaxAmount:    10000,
		CheckoutURL:  "https://www.klarna.com/us/shopping/checkout",
	},
	Afterpay: {
		Key:          Afterpay,
		DisplayName:  "Afterpay",
		Installments: 4,
		MinAmount:    1,
		MaxAmount:    2000,
		CheckoutURL:  "https://www.afterpay.com/checkout",
	},
	Affirm: {
		Key:          Affirm,
		DisplayName:  "Affirm",
		Installments: 3,
		MinAmount:    50,
		MaxAmount:    30000,
		CheckoutURL:  "https://www.affirm.com/apps/checkout",
	},
	Sezzle: {
		Key:          Sezzle,
		DisplayName:  "Sezzle",
		Installments: 4,
		MinAmount:    1,
		MaxAmount:    2500,
		CheckoutURL:  "https://checkout.sezzle.com",
	},
	Zip: {
		Key:          Zip,
		DisplayName:  "Zip",
		Installments: 4,
		MinAmount:    1,
		MaxAmount:    1500,
		CheckoutURL:  "https://zip.co/checkout",
	},
	PayPalCredit: {
		Key:          PayPalCredit,
		DisplayName:  "PayPal Credit",
		Installments: 6,
		MinAmount:    99,
		MaxAmount:    10000,
		CheckoutURL:  "https://www.paypal.com/credit",
	},
}

// Lookup returns the catalog entry for key.
func Lookup(key string) (Provider, bool) {
	p, ok := catalog[key]
	return p, ok
}

// Keys returns every provider key in catalog order.
func Keys() []string {
	keys := make([]string, len(catalogOrder))
	copy(keys, catalogOrder)
	return keys
}

// Providers returns the whole catalog in catalog order.
func Providers() []Provider {
	out := make([]Provider, 0, len(catalogOrder))
	for _, key := range catalogOrder {
		out = append(out, catalog[key])
	}
	return out
}

// ValidateProviders returns the keys that are not in the catalog, in input order.
func ValidateProviders(keys []string) []string {
	var unknown []string
	for _, key := range keys {
		if _, ok := catalog[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

// Eligible reports whether price falls inside the provider's inclusive bounds.
func (p Provider) Eligible(price float64) bool {
	return price >= p.MinAmount && price <= p.MaxAmount
}

// LogoFile is the storefront asset name, e.g. "paypal-credit-logo.svg".
func (p Provider) LogoFile() string {
	return strings.ReplaceAll(p.Key, "_", "-") + "-logo.svg"
}
