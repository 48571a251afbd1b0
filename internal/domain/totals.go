package domain

import "github.com/shopspring/decimal"

// VATRate is the fixed Ugandan VAT rate applied to every invoice
var VATRate = decimal.RequireFromString("0.18")

// LineAmount is the quantity/price pair the calculator needs from a line
type LineAmount struct {
	Quantity  float64
	UnitPrice decimal.Decimal
}

// Totals holds the derived amounts of an invoice or draft
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal returns quantity x unit price
func LineTotal(quantity float64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(quantity).Mul(unitPrice)
}

// ComputeTotals sums the lines and applies the tax rate.
// Tax is rounded to whole units since UGX has no minor unit.
func ComputeTotals(lines []LineAmount, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l.Quantity, l.UnitPrice))
	}

	tax := subtotal.Mul(taxRate).Round(0)

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
