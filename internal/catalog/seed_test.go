package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoices_MatchPublishedTotals(t *testing.T) {
	want := map[string][3]string{
		"INV-2024-001": {"2850000", "513000", "3363000"},
		"INV-2024-002": {"1500000", "270000", "1770000"},
		"INV-2024-003": {"4000000", "720000", "4720000"},
		"INV-2024-004": {"450000", "81000", "531000"},
	}

	invoices := Invoices()
	require.Len(t, invoices, 4)

	for _, inv := range invoices {
		require.NoError(t, inv.Validate(), inv.Number)
		w := want[inv.Number]
		assert.Equal(t, w[0], inv.Subtotal.String(), inv.Number)
		assert.Equal(t, w[1], inv.Tax.String(), inv.Number)
		assert.Equal(t, w[2], inv.Total.String(), inv.Number)
	}
}

func TestInvoices_ReturnsCopies(t *testing.T) {
	a := Invoices()
	a[0].Customer.Name = "changed"

	b := Invoices()
	assert.Equal(t, "Nile Coffee Exports Ltd", b[0].Customer.Name)
}
