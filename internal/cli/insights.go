package cli

import (
	"fmt"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show invoice totals and an AI-written summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		currency := appInstance.Config.Invoice.Currency

		stats, err := appInstance.ReportService.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		fmt.Printf("Total revenue:  %s\n", domain.FormatMoney(stats.TotalRevenue, currency))
		fmt.Printf("Pending:        %s\n", domain.FormatMoney(stats.PendingAmount, currency))
		fmt.Printf("Invoices:       %d (%d paid, %d pending, %d overdue)\n",
			stats.TotalInvoices, stats.PaidCount, stats.PendingCount, stats.OverdueCount)

		revenue, err := appInstance.ReportService.RevenueByMonth(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute revenue: %w", err)
		}
		if len(revenue) > 0 {
			fmt.Println()
			fmt.Println("Revenue by month:")
			for _, r := range revenue {
				fmt.Printf("  %-9s %s\n", r.Month.Format("Jan 2006"), domain.FormatMoney(r.Total, currency))
			}
		}

		fmt.Println()
		fmt.Println("AI insights:")
		fmt.Println(appInstance.ReportService.Insights(ctx))
		return nil
	},
}
