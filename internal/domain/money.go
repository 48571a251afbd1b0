package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the only currency the product bills in
const DefaultCurrency = "UGX"

func init() {
	// Webhook consumers and saved drafts expect amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// FormatMoney formats an amount as "UGX 3,363,000" with no minor units
func FormatMoney(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}

	negative := amount.IsNegative()
	s := amount.Abs().Round(0).StringFixed(0)

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	if negative {
		return "-" + currency + " " + b.String()
	}
	return currency + " " + b.String()
}
