package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"3", 3, false},
		{"2,500,000", 2500000, false},
		{"1.5", 1.5, false},
		{"-4", -4, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1", formatAmount(1))
	assert.Equal(t, "2.5", formatAmount(2.5))
	assert.Equal(t, "2500000", formatAmount(2500000))
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "Nile", truncateStr("Nile", 10))
	assert.Equal(t, "Nile Co...", truncateStr("Nile Coffee Exports Ltd", 10))
	assert.Equal(t, "Ni", truncateStr("Nile", 2))
}

func TestValidateSettings(t *testing.T) {
	valid := func() []string {
		return []string{
			"https://hooks.example.ug/invoices",
			"/tmp/invoices",
			"INV",
			"14",
			"https://pay.invoiceflow.ai/pay",
			"InvoiceFlow Uganda Ltd",
			"accounts@invoiceflow.ug",
			"+256 700 123 456",
		}
	}

	require.NoError(t, validateSettings(valid()))

	noHook := valid()
	noHook[settingsFieldWebhookURL] = ""
	assert.NoError(t, validateSettings(noHook))

	badHook := valid()
	badHook[settingsFieldWebhookURL] = "ftp://example.com"
	assert.Error(t, validateSettings(badHook))

	badDays := valid()
	badDays[settingsFieldDueDays] = "0"
	assert.Error(t, validateSettings(badDays))

	noDir := valid()
	noDir[settingsFieldOutputDir] = " "
	assert.Error(t, validateSettings(noDir))

	badBase := valid()
	badBase[settingsFieldPaymentBase] = "pay.invoiceflow.ai"
	assert.Error(t, validateSettings(badBase))
}
