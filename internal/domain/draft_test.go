package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleDraft() *Draft {
	return &Draft{
		CustomerName:    "Nile Coffee Exports Ltd",
		CustomerEmail:   "accounts@nilecoffee.ug",
		CustomerAddress: "Plot 43 Jinja Road, Kampala, Uganda",
		Date:            "2024-05-01",
		DueDate:         "2024-05-15",
		Items: []DraftItem{
			{Description: "Website Redesign", Quantity: 1, UnitPrice: 2500000},
			{Description: "Annual Hosting", Quantity: 1, UnitPrice: 350000},
		},
		Notes: "Thank you",
	}
}

func TestDraftCodec_RoundTrip(t *testing.T) {
	d := sampleDraft()

	data, err := EncodeDraft(d)
	require.NoError(t, err)

	got, err := DecodeDraft(data)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDecodeDraft_KeepsInvalidAmounts(t *testing.T) {
	d, err := DecodeDraft([]byte(`{"version":1,"draft":{"customerName":"Pearl of Africa Tours","items":[{"quantity":-1,"unitPrice":5}]}}`))
	require.NoError(t, err)
	assert.Equal(t, "Pearl of Africa Tours", d.CustomerName)
	assert.Equal(t, -1.0, d.Items[0].Quantity)
	assert.ErrorIs(t, d.Validate(), ErrNegativeAmount)
}

func TestDecodeDraft_Failures(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"garbage", "{not json", ErrDraftCorrupt},
		{"wrong version", `{"version":7,"draft":{"items":[]}}`, ErrDraftVersion},
		{"unversioned legacy", `{"customerName":"x","items":[]}`, ErrDraftVersion},
		{"missing body", `{"version":1}`, ErrDraftCorrupt},
		{"wrong type", `{"version":1,"draft":{"items":"nope"}}`, ErrDraftCorrupt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDraft([]byte(tc.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestDraft_Totals(t *testing.T) {
	tot := sampleDraft().Totals()
	assert.Equal(t, "2850000", tot.Subtotal.String())
	assert.Equal(t, "513000", tot.Tax.String())
	assert.Equal(t, "3363000", tot.Total.String())
}

func TestDraft_Validate(t *testing.T) {
	d := sampleDraft()
	require.NoError(t, d.Validate())

	d.Items[1].UnitPrice = -10
	assert.ErrorIs(t, d.Validate(), ErrNegativeAmount)
}

func TestDraft_ApplyPatch(t *testing.T) {
	d := sampleDraft()
	d.Apply(&DraftPatch{
		CustomerName:  strPtr("Crane Construction"),
		CustomerEmail: strPtr(""),
		Items:         nil,
	})

	assert.Equal(t, "Crane Construction", d.CustomerName)
	assert.Equal(t, "accounts@nilecoffee.ug", d.CustomerEmail, "empty value must not clear a field")
	assert.Len(t, d.Items, 2, "absent items must leave lines untouched")

	d.Apply(&DraftPatch{Items: []DraftItem{{Description: "Survey", Quantity: 2, UnitPrice: 10}}})
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Survey", d.Items[0].Description)
}

func TestDraftPatch_MergeLastNonAbsentWins(t *testing.T) {
	first := &DraftPatch{CustomerName: strPtr("A"), Date: strPtr("2024-01-01")}
	second := &DraftPatch{CustomerName: strPtr("B"), Date: strPtr("")}

	got := first.Merge(second)
	assert.Equal(t, "B", *got.CustomerName)
	assert.Equal(t, "2024-01-01", *got.Date)
	assert.Nil(t, got.CustomerEmail)

	assert.Equal(t, "A", *first.CustomerName, "merge must not mutate the receiver")
}

func TestDraft_RemoveItemDoesNotAlias(t *testing.T) {
	d := sampleDraft()
	c := d.Clone()

	d.RemoveItem(0)
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Annual Hosting", d.Items[0].Description)
	assert.Equal(t, "Website Redesign", c.Items[0].Description)

	d.RemoveItem(5)
	assert.Len(t, d.Items, 1)
}

func TestDraft_ToInvoice(t *testing.T) {
	inv, err := sampleDraft().ToInvoice("INV-2024-005", DefaultCurrency)
	require.NoError(t, err)

	assert.Equal(t, InvoiceStatusPending, inv.Status)
	assert.Equal(t, "3363000", inv.Total.String())
	assert.Equal(t, "Nile Coffee Exports Ltd", inv.Customer.Name)
	require.NoError(t, inv.Validate())

	back := DraftFromInvoice(inv)
	assert.Equal(t, "2024-05-15", back.DueDate)
	assert.Equal(t, float64(2500000), back.Items[0].UnitPrice)
}

func TestDraft_ToInvoiceRequiresCustomer(t *testing.T) {
	d := NewDraft(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, d.IsBlank())

	_, err := d.ToInvoice("INV-1", DefaultCurrency)
	assert.Error(t, err)
}
