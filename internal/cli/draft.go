package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/spf13/cobra"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Work with the in-progress invoice draft",
	Long: `The draft is the single unsent invoice being edited. It is shared with
the TUI builder and saved on every change.`,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, ok := appInstance.DraftService.Load(cmd.Context())
		if !ok {
			fmt.Println("No saved draft; showing a blank one.")
			fmt.Println()
		}
		printDraft(cmd.OutOrStdout(), d, appInstance.Config.Invoice.Currency)
		return nil
	},
}

var draftSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Update draft fields and save",
	Long: `Update draft fields and save. Only the flags given are changed.
Items are given as "description:quantity:unit price" and replace all lines.

Example:
  invoiceflow draft save --customer "Nile Coffee Exports Ltd" \
    --item "Export consulting:1:2500000" --item "Logistics:1:350000"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, _ := appInstance.DraftService.Load(ctx)
		if err := applyDraftFlags(cmd, d); err != nil {
			return err
		}
		if err := d.Validate(); err != nil {
			return err
		}

		msg, err := appInstance.DraftService.SaveExplicit(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}

		fmt.Printf("✓ %s\n", msg)
		return nil
	},
}

var draftResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the draft with a blank one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := appInstance.DraftService.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("failed to reset draft: %w", err)
		}
		fmt.Println("✓ Draft cleared")
		return nil
	},
}

var draftSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send the draft to the processing webhook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, ok := appInstance.DraftService.Load(ctx)
		if !ok {
			return fmt.Errorf("no saved draft to send")
		}

		res, err := appInstance.DraftService.Send(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to send invoice: %w", err)
		}

		if !res.Sent {
			fmt.Printf("! %s\n", res.Warning)
			return nil
		}
		fmt.Printf("✓ %s\n", res.Message)
		return nil
	},
}

var draftFillCmd = &cobra.Command{
	Use:   "fill [description...]",
	Short: "Fill the draft from a plain-language description using AI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, _ := appInstance.DraftService.Load(ctx)
		next, err := appInstance.DraftService.ApplyExtraction(ctx, d, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("failed to generate invoice from text: %w", err)
		}

		printDraft(cmd.OutOrStdout(), next, appInstance.Config.Invoice.Currency)
		return nil
	},
}

var draftEditFromCmd = &cobra.Command{
	Use:   "edit-from [id_or_number]",
	Short: "Load an existing invoice into the draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inv, err := appInstance.CatalogService.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}

		d, err := appInstance.DraftService.LoadFromInvoice(ctx, inv)
		if err != nil {
			return fmt.Errorf("failed to load invoice into draft: %w", err)
		}

		fmt.Printf("✓ Draft loaded from %s\n\n", inv.Number)
		printDraft(cmd.OutOrStdout(), d, appInstance.Config.Invoice.Currency)
		return nil
	},
}

var draftExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a PDF preview of the draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, _ := appInstance.DraftService.Load(ctx)
		inv, err := appInstance.DraftService.Preview(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to build preview: %w", err)
		}

		dir, _ := cmd.Flags().GetString("dir")
		path, err := appInstance.ExporterFor(dir).Export(inv)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		fmt.Printf("✓ %s\n", path)
		return nil
	},
}

// applyDraftFlags copies the flags that were set onto d
func applyDraftFlags(cmd *cobra.Command, d *domain.Draft) error {
	fields := []struct {
		flag string
		dst  *string
	}{
		{"customer", &d.CustomerName},
		{"email", &d.CustomerEmail},
		{"address", &d.CustomerAddress},
		{"date", &d.Date},
		{"due", &d.DueDate},
		{"notes", &d.Notes},
	}
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			*f.dst, _ = cmd.Flags().GetString(f.flag)
		}
	}

	if cmd.Flags().Changed("item") {
		specs, _ := cmd.Flags().GetStringArray("item")
		items := make([]domain.DraftItem, 0, len(specs))
		for _, spec := range specs {
			item, err := parseItem(spec)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		d.Items = items
	}
	return nil
}

// parseItem parses "description:quantity:unit price"; the description may contain colons
func parseItem(spec string) (domain.DraftItem, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return domain.DraftItem{}, fmt.Errorf("item %q: expected description:quantity:unit price", spec)
	}
	n := len(parts)

	qty, err := strconv.ParseFloat(strings.TrimSpace(parts[n-2]), 64)
	if err != nil {
		return domain.DraftItem{}, fmt.Errorf("item %q: invalid quantity: %w", spec, err)
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(parts[n-1]), ",", ""), 64)
	if err != nil {
		return domain.DraftItem{}, fmt.Errorf("item %q: invalid unit price: %w", spec, err)
	}

	return domain.DraftItem{
		Description: strings.TrimSpace(strings.Join(parts[:n-2], ":")),
		Quantity:    qty,
		UnitPrice:   price,
	}, nil
}

func init() {
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftSaveCmd)
	draftCmd.AddCommand(draftResetCmd)
	draftCmd.AddCommand(draftSendCmd)
	draftCmd.AddCommand(draftFillCmd)
	draftCmd.AddCommand(draftEditFromCmd)
	draftCmd.AddCommand(draftExportCmd)

	// Save flags
	draftSaveCmd.Flags().String("customer", "", "Customer name")
	draftSaveCmd.Flags().String("email", "", "Customer email")
	draftSaveCmd.Flags().String("address", "", "Customer address")
	draftSaveCmd.Flags().String("date", "", "Invoice date (YYYY-MM-DD)")
	draftSaveCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	draftSaveCmd.Flags().String("notes", "", "Notes")
	draftSaveCmd.Flags().StringArray("item", nil, `Line item as "description:quantity:unit price" (repeatable)`)

	// Export flags
	draftExportCmd.Flags().String("dir", "", "Output directory (defaults to the configured one)")
}
