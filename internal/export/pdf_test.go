package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andy/invoiceflow/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBranding = Branding{
	Name:         "InvoiceFlow Uganda Ltd",
	Address:      "Plot 42, Kampala Road\nKampala, Uganda",
	Phone:        "+256 700 123 456",
	Email:        "accounts@invoiceflow.ug",
	Website:      "www.invoiceflow.ug",
	PrimaryColor: "#2563eb",
}

func TestSanitizeNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"INV-2024-001", "INV-2024-001"},
		{"INV/2024 #7", "INV20247"},
		{"a_b-c", "a_b-c"},
		{"ÜGX№1", "GX1"},
		{"../../etc", "etc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeNumber(tt.in), tt.in)
	}
}

func TestFileName(t *testing.T) {
	name, err := FileName("INV-2024-001")
	require.NoError(t, err)
	assert.Equal(t, "Invoice-INV-2024-001.pdf", name)

	_, err = FileName("///")
	assert.ErrorIs(t, err, ErrNoNumber)
}

func TestRender(t *testing.T) {
	inv := catalog.Invoices()[0]
	inv.PaymentLink = "https://pay.invoiceflow.ai/pay/inv_001?method=mobile_money&banking=true"

	var buf bytes.Buffer
	require.NoError(t, NewPDFExporter("", testBranding).Render(&buf, inv))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	inv := catalog.Invoices()[1]

	path, err := NewPDFExporter(dir, testBranding).Export(inv)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Invoice-INV-2024-002.pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExport_NoDir(t *testing.T) {
	_, err := NewPDFExporter("", testBranding).Export(catalog.Invoices()[0])
	assert.ErrorIs(t, err, ErrNoOutputDir)
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	invoices := catalog.Invoices()

	paths, err := NewPDFExporter(dir, testBranding).ExportAll(context.Background(), invoices)
	require.NoError(t, err)
	require.Len(t, paths, len(invoices))

	for i, inv := range invoices {
		name, _ := FileName(inv.Number)
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		assert.FileExists(t, paths[i])
	}
}

func TestExportAll_StopsOnFailure(t *testing.T) {
	invoices := catalog.Invoices()
	invoices[2].Number = "***"

	_, err := NewPDFExporter(t.TempDir(), testBranding).ExportAll(context.Background(), invoices)
	assert.ErrorIs(t, err, ErrNoNumber)
}

func TestExportAll_CollidingNumbers(t *testing.T) {
	dir := t.TempDir()
	invoices := catalog.Invoices()[:3]
	invoices[0].Number = "INV/1"
	invoices[1].Number = "INV1"
	invoices[2].Number = "INV-1"

	paths, err := NewPDFExporter(dir, testBranding).ExportAll(context.Background(), invoices)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Invoice-INV1.pdf"),
		filepath.Join(dir, "Invoice-INV1-2.pdf"),
		filepath.Join(dir, "Invoice-INV-1.pdf"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestHexColor(t *testing.T) {
	r, g, b := hexColor("#10b981")
	assert.Equal(t, []int{16, 185, 129}, []int{r, g, b})

	r, g, b = hexColor("not a colour")
	assert.Equal(t, []int{37, 99, 235}, []int{r, g, b})
}
