package tui

import (
	"testing"

	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestRouter_StartsOnDashboard(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, ViewDashboard, r.Current())
	assert.Nil(t, r.Selected())
	assert.Zero(t, r.Generation())
}

func TestRouter_OpenAndBack(t *testing.T) {
	r := NewRouter()
	inv := catalog.Invoices()[0]

	r.Navigate(ViewInvoices)
	r.Open(inv)
	assert.Equal(t, ViewDetails, r.Current())
	assert.Same(t, inv, r.Selected())

	r.Back()
	assert.Equal(t, ViewInvoices, r.Current())
	assert.Nil(t, r.Selected())

	r.Back()
	assert.Equal(t, ViewDashboard, r.Current())

	r.Back()
	assert.Equal(t, ViewDashboard, r.Current())
}

func TestRouter_DetailsWithoutSelectionShowsList(t *testing.T) {
	r := NewRouter()
	r.Navigate(ViewDetails)
	assert.Equal(t, ViewInvoices, r.Current())
}

func TestRouter_GenerationAdvancesOnEveryNavigation(t *testing.T) {
	r := NewRouter()
	r.Navigate(ViewCreate)
	g1 := r.Generation()
	r.Navigate(ViewCreate)
	g2 := r.Generation()
	r.Open(catalog.Invoices()[1])
	g3 := r.Generation()

	assert.Less(t, 0, g1)
	assert.Less(t, g1, g2)
	assert.Less(t, g2, g3)
}

func TestRouter_BackFromAssistant(t *testing.T) {
	r := NewRouter()
	r.Navigate(ViewChat)
	r.Back()
	assert.Equal(t, ViewDashboard, r.Current())
}

func TestView_String(t *testing.T) {
	assert.Equal(t, "New Invoice", ViewCreate.String())
	assert.Equal(t, "Assistant", ViewChat.String())
	assert.Equal(t, "Unknown", View(99).String())
}
