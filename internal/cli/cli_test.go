package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItem(t *testing.T) {
	item, err := parseItem("Export consulting:1:2,500,000")
	require.NoError(t, err)
	assert.Equal(t, domain.DraftItem{Description: "Export consulting", Quantity: 1, UnitPrice: 2500000}, item)

	item, err = parseItem("Ratio 3:2 prints:4:15000")
	require.NoError(t, err)
	assert.Equal(t, "Ratio 3:2 prints", item.Description)
	assert.Equal(t, 4.0, item.Quantity)

	_, err = parseItem("missing price:1")
	assert.Error(t, err)

	_, err = parseItem("Bad qty:x:100")
	assert.Error(t, err)
}

func TestPrintInvoice(t *testing.T) {
	var buf bytes.Buffer
	printInvoice(&buf, catalog.Invoices()[0])

	out := buf.String()
	assert.Contains(t, out, "INV-2024-001")
	assert.Contains(t, out, "Nile Coffee Exports Ltd")
	assert.Contains(t, out, "UGX 3,363,000")
}

func TestPrintDraft(t *testing.T) {
	d := &domain.Draft{
		CustomerName: "Crane Construction",
		Date:         "2024-05-20",
		Items:        []domain.DraftItem{{Description: "Site survey", Quantity: 2, UnitPrice: 100000}},
	}

	var buf bytes.Buffer
	printDraft(&buf, d, "UGX")

	out := buf.String()
	assert.Contains(t, out, "Crane Construction")
	assert.Contains(t, out, "UGX 200,000")
	assert.Contains(t, out, "UGX 36,000")
	assert.Contains(t, out, "UGX 236,000")
}

type scriptedChat struct {
	answers map[string]string
	asked   []string
}

func (s *scriptedChat) Send(ctx context.Context, text string) (string, error) {
	s.asked = append(s.asked, text)
	answer, ok := s.answers[text]
	if !ok {
		return "", errors.New("model overloaded")
	}
	return answer, nil
}

func TestRunChat(t *testing.T) {
	chat := &scriptedChat{answers: map[string]string{
		"What is VAT?": "VAT is 18% of the subtotal.",
		"Thanks":       "You're welcome!",
	}}
	in := strings.NewReader("What is VAT?\n\nWho are you?\nThanks\nexit\nnever asked\n")

	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), chat, in, &out))

	assert.Equal(t, []string{"What is VAT?", "Who are you?", "Thanks"}, chat.asked)
	assert.Contains(t, out.String(), "VAT is 18% of the subtotal.")
	assert.Contains(t, out.String(), "Sorry, I couldn't answer that: model overloaded")
	assert.Contains(t, out.String(), "You're welcome!")
}

func TestRunChat_EndOfInput(t *testing.T) {
	chat := &scriptedChat{}
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), chat, strings.NewReader(""), &out))
	assert.Empty(t, chat.asked)
}
