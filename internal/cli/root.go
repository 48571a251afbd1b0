package cli

import (
	"context"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "invoiceflow",
	Short: "Invoicing for small businesses in Uganda",
	Long: `InvoiceFlow builds, previews, and exports UGX invoices with 18% VAT,
fills drafts from plain-language descriptions, and issues mock
mobile money payment links.

By default, running invoiceflow without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
