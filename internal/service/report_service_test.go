package service

import (
	"context"
	"testing"
	"time"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	repo := &fakeInvoiceRepo{invoices: catalog.Invoices()}
	svc := NewReportService(repo, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	paid := catalog.Invoices()[0].Total
	assert.True(t, stats.TotalRevenue.Equal(paid), "revenue = %s", stats.TotalRevenue)
	assert.Equal(t, 4, stats.TotalInvoices)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 1, stats.OverdueCount)

	pending := catalog.Invoices()[1].Total.Add(catalog.Invoices()[3].Total)
	assert.True(t, stats.PendingAmount.Equal(pending), "pending = %s", stats.PendingAmount)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Zero(t, stats.TotalInvoices)
}

func TestRevenueByMonth(t *testing.T) {
	repo := &fakeInvoiceRepo{invoices: catalog.Invoices()}
	svc := NewReportService(repo, nil)

	revenue, err := svc.RevenueByMonth(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, revenue)

	for i := 1; i < len(revenue); i++ {
		assert.True(t, revenue[i-1].Month.Before(revenue[i].Month))
	}

	sum := revenue[0].Total
	for _, m := range revenue[1:] {
		sum = sum.Add(m.Total)
	}
	total := catalog.Invoices()[0].Total
	for _, inv := range catalog.Invoices()[1:] {
		total = total.Add(inv.Total)
	}
	assert.True(t, sum.Equal(total))
	require.Len(t, revenue, 2)
	assert.Equal(t, time.April, revenue[0].Month.Month())
	assert.Equal(t, time.May, revenue[1].Month.Month())
}

func TestInsights(t *testing.T) {
	repo := &fakeInvoiceRepo{invoices: catalog.Invoices()}

	assert.Equal(t, "Strong May.", NewReportService(repo, &fakeSummarizer{text: "Strong May."}).Insights(context.Background()))
	assert.Equal(t, ai.InsightsUnavailable, NewReportService(repo, nil).Insights(context.Background()))
}
