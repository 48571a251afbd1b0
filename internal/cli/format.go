package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andy/invoiceflow/internal/domain"
)

const rule = 80

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// printInvoice writes a plain-text rendering of inv
func printInvoice(w io.Writer, inv *domain.Invoice) {
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintf(w, "Invoice: %s (%s)\n", inv.Number, inv.ID)
	fmt.Fprintln(w, strings.Repeat("=", rule))
	fmt.Fprintf(w, "Customer: %s\n", inv.CustomerName())
	if inv.Customer != nil {
		if inv.Customer.Email != "" {
			fmt.Fprintf(w, "Email:    %s\n", inv.Customer.Email)
		}
		if inv.Customer.Address != "" {
			fmt.Fprintf(w, "Address:  %s\n", strings.ReplaceAll(inv.Customer.Address, "\n", ", "))
		}
	}
	fmt.Fprintf(w, "Date:     %s\n", dayOrDash(inv.Date.IsZero(), inv.Date.Format(domain.DateLayout)))
	fmt.Fprintf(w, "Due:      %s\n", dayOrDash(inv.DueDate.IsZero(), inv.DueDate.Format(domain.DateLayout)))
	fmt.Fprintf(w, "Status:   %s\n", inv.Status)
	if inv.PaymentLink != "" {
		fmt.Fprintf(w, "Pay:      %s\n", inv.PaymentLink)
	}
	fmt.Fprintln(w)

	if len(inv.Items) > 0 {
		fmt.Fprintln(w, "Line Items:")
		fmt.Fprintln(w, strings.Repeat("-", rule))
		fmt.Fprintf(w, "%-36s %6s %16s %16s\n", "Description", "Qty", "Unit Price", "Amount")
		fmt.Fprintln(w, strings.Repeat("-", rule))
		for _, item := range inv.Items {
			fmt.Fprintf(w, "%-36s %6g %16s %16s\n",
				truncate(item.Description, 36),
				item.Quantity,
				domain.FormatMoney(item.UnitPrice, inv.Currency),
				domain.FormatMoney(item.Total, inv.Currency),
			)
		}
		fmt.Fprintln(w, strings.Repeat("-", rule))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Subtotal:  %s\n", domain.FormatMoney(inv.Subtotal, inv.Currency))
	fmt.Fprintf(w, "VAT (18%%): %s\n", domain.FormatMoney(inv.Tax, inv.Currency))
	fmt.Fprintf(w, "Total:     %s\n", domain.FormatMoney(inv.Total, inv.Currency))
	fmt.Fprintln(w, strings.Repeat("=", rule))
}

// printDraft writes the draft form state with live totals
func printDraft(w io.Writer, d *domain.Draft, currency string) {
	fmt.Fprintf(w, "Customer: %s\n", d.CustomerName)
	fmt.Fprintf(w, "Email:    %s\n", d.CustomerEmail)
	fmt.Fprintf(w, "Address:  %s\n", strings.ReplaceAll(d.CustomerAddress, "\n", ", "))
	fmt.Fprintf(w, "Date:     %s\n", d.Date)
	fmt.Fprintf(w, "Due:      %s\n", d.DueDate)
	if d.Notes != "" {
		fmt.Fprintf(w, "Notes:    %s\n", d.Notes)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-3s %-36s %6s %16s\n", "#", "Description", "Qty", "Unit Price")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	for i, item := range d.Items {
		fmt.Fprintf(w, "%-3d %-36s %6g %16g\n", i+1, truncate(item.Description, 36), item.Quantity, item.UnitPrice)
	}
	fmt.Fprintln(w, strings.Repeat("-", 64))

	t := d.Totals()
	fmt.Fprintf(w, "Subtotal:  %s\n", domain.FormatMoney(t.Subtotal, currency))
	fmt.Fprintf(w, "VAT (18%%): %s\n", domain.FormatMoney(t.Tax, currency))
	fmt.Fprintf(w, "Total:     %s\n", domain.FormatMoney(t.Total, currency))
}

func dayOrDash(zero bool, s string) string {
	if zero {
		return "-"
	}
	return s
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
