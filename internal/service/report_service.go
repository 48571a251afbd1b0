package service

import (
	"context"
	"sort"
	"time"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/repository"
	"github.com/shopspring/decimal"
)

// DashboardStats are the headline figures of the dashboard
type DashboardStats struct {
	TotalRevenue  decimal.Decimal // Sum of paid invoice totals
	PendingAmount decimal.Decimal // Sum of pending invoice totals
	TotalInvoices int
	PaidCount     int
	PendingCount  int
	OverdueCount  int
}

// MonthRevenue is the invoiced total of one calendar month
type MonthRevenue struct {
	Month time.Time // First day of the month, UTC
	Total decimal.Decimal
}

// ReportService provides aggregations and analytics
type ReportService interface {
	Stats(ctx context.Context) (*DashboardStats, error)

	// RevenueByMonth sums invoice totals by issue month, oldest first
	RevenueByMonth(ctx context.Context) ([]MonthRevenue, error)

	// Insights returns a prose summary of the catalog; it never fails
	Insights(ctx context.Context) string
}

// Summarizer writes a prose summary of invoices
type Summarizer interface {
	Summarize(ctx context.Context, invoices []*domain.Invoice) string
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
	summarizer  Summarizer
}

// NewReportService creates a new report service
func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	summarizer Summarizer,
) ReportService {
	return &reportService{
		invoiceRepo: invoiceRepo,
		summarizer:  summarizer,
	}
}

func (s *reportService) Stats(ctx context.Context) (*DashboardStats, error) {
	invoices, err := s.invoiceRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return ComputeStats(invoices), nil
}

// ComputeStats aggregates dashboard figures from invoices
func ComputeStats(invoices []*domain.Invoice) *DashboardStats {
	stats := &DashboardStats{
		TotalRevenue:  decimal.Zero,
		PendingAmount: decimal.Zero,
		TotalInvoices: len(invoices),
	}

	for _, inv := range invoices {
		switch inv.Status {
		case domain.InvoiceStatusPaid:
			stats.PaidCount++
			stats.TotalRevenue = stats.TotalRevenue.Add(inv.Total)
		case domain.InvoiceStatusPending:
			stats.PendingCount++
			stats.PendingAmount = stats.PendingAmount.Add(inv.Total)
		case domain.InvoiceStatusOverdue:
			stats.OverdueCount++
		}
	}

	return stats
}

func (s *reportService) RevenueByMonth(ctx context.Context) ([]MonthRevenue, error) {
	invoices, err := s.invoiceRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]decimal.Decimal)
	for _, inv := range invoices {
		month := time.Date(inv.Date.Year(), inv.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] = byMonth[month].Add(inv.Total)
	}

	revenue := make([]MonthRevenue, 0, len(byMonth))
	for month, total := range byMonth {
		revenue = append(revenue, MonthRevenue{Month: month, Total: total})
	}
	sort.Slice(revenue, func(i, j int) bool {
		return revenue[i].Month.Before(revenue[j].Month)
	})

	return revenue, nil
}

func (s *reportService) Insights(ctx context.Context) string {
	invoices, err := s.invoiceRepo.List(ctx, nil)
	if err != nil || s.summarizer == nil {
		return ai.InsightsUnavailable
	}
	return s.summarizer.Summarize(ctx, invoices)
}
