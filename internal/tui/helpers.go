package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/shopspring/decimal"
)

// formatMoney formats an amount in the invoice currency, e.g. "UGX 3,363,000"
func formatMoney(amount decimal.Decimal, currency string) string {
	return domain.FormatMoney(amount, currency)
}

// formatDate formats a calendar date as "May 01, 2024", or "-" when unset
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 02, 2006")
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// parseAmount reads a quantity or price typed into the builder.
// Blank input is zero.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// formatAmount renders a builder number without trailing zeros
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
