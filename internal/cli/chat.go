package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question...]",
	Short: "Ask the InvoiceFlow assistant",
	Long: `Ask the InvoiceFlow assistant about invoices, payments and insights.

With a question, prints one answer. Without one, starts a conversation;
type "exit" or press ctrl+d to leave.

Examples:
  invoiceflow chat "How is VAT calculated?"
  invoiceflow chat`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !appInstance.AIEnabled {
			return fmt.Errorf("assistant unavailable: %w", ai.ErrNoAPIKey)
		}

		session := appInstance.NewChat()
		if len(args) > 0 {
			answer, err := session.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("assistant failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		}
		return runChat(cmd.Context(), session, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

type chatter interface {
	Send(ctx context.Context, text string) (string, error)
}

// runChat reads questions line by line until exit or end of input.
// A failed answer is reported and the conversation continues.
func runChat(ctx context.Context, c chatter, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, ai.ChatGreeting)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer, err := c.Send(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "! Sorry, I couldn't answer that: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n\n", answer)
	}
}
