package cli

import (
	"fmt"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/spf13/cobra"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Browse and export invoices",
	Long:  `List, search, show, and export invoices, and issue payment links.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		query, _ := cmd.Flags().GetString("search")
		statusStr, _ := cmd.Flags().GetString("status")
		status, err := service.ParseStatusFilter(statusStr)
		if err != nil {
			return err
		}

		result, err := appInstance.CatalogService.Search(ctx, service.Filter{Query: query, Status: status})
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if result.Empty() {
			fmt.Println("No invoices match your search")
			return nil
		}
		if len(result.Invoices) == 0 {
			fmt.Println("No invoices found")
			return nil
		}

		// Print table header
		fmt.Printf("%-10s %-15s %-28s %-12s %18s %-8s\n", "ID", "Number", "Customer", "Date", "Total", "Status")
		fmt.Println("-----------------------------------------------------------------------------------------------")

		for _, inv := range result.Invoices {
			fmt.Printf("%-10s %-15s %-28s %-12s %18s %-8s\n",
				truncate(inv.ID, 10),
				inv.Number,
				truncate(inv.CustomerName(), 28),
				inv.Date.Format(domain.DateLayout),
				domain.FormatMoney(inv.Total, inv.Currency),
				inv.Status,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(result.Invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id_or_number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.CatalogService.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		printInvoice(cmd.OutOrStdout(), inv)
		return nil
	},
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export [id_or_number...]",
	Short: "Export invoices to PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		all, _ := cmd.Flags().GetBool("all")
		dir, _ := cmd.Flags().GetString("dir")
		if !all && len(args) == 0 {
			return fmt.Errorf("name at least one invoice or pass --all")
		}

		var invoices []*domain.Invoice
		if all {
			list, err := appInstance.CatalogService.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list invoices: %w", err)
			}
			invoices = list
		} else {
			for _, ref := range args {
				inv, err := appInstance.CatalogService.Get(ctx, ref)
				if err != nil {
					return fmt.Errorf("failed to get invoice %s: %w", ref, err)
				}
				invoices = append(invoices, inv)
			}
		}

		paths, err := appInstance.ExporterFor(dir).ExportAll(ctx, invoices)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		for _, p := range paths {
			fmt.Printf("✓ %s\n", p)
		}
		return nil
	},
}

var invoicesPayLinkCmd = &cobra.Command{
	Use:   "pay-link [id_or_number]",
	Short: "Generate a mobile money payment link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inv, err := appInstance.CatalogService.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		fmt.Printf("Requesting payment link for %s...\n", inv.Number)
		res, err := appInstance.PaymentLinkService.Generate(ctx, inv)
		if err != nil {
			return fmt.Errorf("payment link cancelled: %w", err)
		}

		if res.Warning != "" {
			fmt.Printf("! %s\n", res.Warning)
		}
		fmt.Printf("✓ %s\n", res.Link)
		return nil
	},
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesExportCmd)
	invoicesCmd.AddCommand(invoicesPayLinkCmd)

	// List flags
	invoicesListCmd.Flags().String("search", "", "Match customer name or invoice number")
	invoicesListCmd.Flags().String("status", "All", "Filter by status (All, Paid, Pending, Overdue, Draft)")

	// Export flags
	invoicesExportCmd.Flags().Bool("all", false, "Export every invoice")
	invoicesExportCmd.Flags().String("dir", "", "Output directory (defaults to the configured one)")
}
