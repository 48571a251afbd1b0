package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stored data",
	Long: `Reset stored data.

Examples:
  invoiceflow reset --draft    # Discard the in-progress draft
  invoiceflow reset --all      # Discard the draft and restore the sample invoices`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		draft, _ := cmd.Flags().GetBool("draft")
		all, _ := cmd.Flags().GetBool("all")
		if !draft && !all {
			return fmt.Errorf("choose --draft or --all")
		}

		if all {
			if !confirmPrompt("This will discard the draft and replace ALL invoices with the sample catalog. Continue?") {
				fmt.Println("Cancelled.")
				return nil
			}
			if err := appInstance.DraftService.Discard(ctx); err != nil {
				return fmt.Errorf("failed to discard draft: %w", err)
			}
			if err := appInstance.CatalogService.Reseed(ctx); err != nil {
				return fmt.Errorf("failed to restore invoices: %w", err)
			}
			fmt.Println("Draft discarded and sample invoices restored.")
			return nil
		}

		if !confirmPrompt("This will discard the in-progress draft. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := appInstance.DraftService.Discard(ctx); err != nil {
			return fmt.Errorf("failed to discard draft: %w", err)
		}
		fmt.Println("Draft discarded.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("draft", false, "Discard the in-progress draft")
	resetCmd.Flags().Bool("all", false, "Discard the draft and restore the sample invoices")
}
