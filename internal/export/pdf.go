package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/andy/invoiceflow/internal/domain"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoOutputDir = errors.New("no output directory configured")
	ErrNoNumber    = errors.New("invoice has no usable number for a file name")
)

// maxParallel bounds ExportAll's concurrent renders
const maxParallel = 4

// PaymentTerms is printed under the totals of every invoice
const PaymentTerms = "Please include the invoice number in your payment reference. Payment is due within 14 days."

// Branding is the issuing company printed in the invoice header
type Branding struct {
	Name         string
	Address      string
	Phone        string
	Email        string
	Website      string
	PrimaryColor string // hex, e.g. "#2563eb"
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeNumber strips every character outside [A-Za-z0-9-_]
func SanitizeNumber(number string) string {
	return unsafeChars.ReplaceAllString(number, "")
}

// FileName returns the PDF file name for an invoice number
func FileName(number string) (string, error) {
	safe := SanitizeNumber(number)
	if safe == "" {
		return "", ErrNoNumber
	}
	return "Invoice-" + safe + ".pdf", nil
}

// PDFExporter renders invoices as A4 portrait PDF documents
type PDFExporter struct {
	dir      string
	branding Branding
}

// NewPDFExporter creates an exporter writing into dir
func NewPDFExporter(dir string, branding Branding) *PDFExporter {
	return &PDFExporter{dir: dir, branding: branding}
}

// Export writes one invoice to the output directory and returns its path
func (e *PDFExporter) Export(inv *domain.Invoice) (string, error) {
	name, err := FileName(inv.Number)
	if err != nil {
		return "", err
	}
	return e.write(inv, name)
}

func (e *PDFExporter) write(inv *domain.Invoice, name string) (string, error) {
	if e.dir == "" {
		return "", ErrNoOutputDir
	}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.dir, name)
	pdf := e.build(inv)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// uniqueNames assigns each invoice its file name, suffixing numbers that
// sanitize to a name already taken ("Invoice-INV1-2.pdf").
func uniqueNames(invoices []*domain.Invoice) ([]string, error) {
	names := make([]string, len(invoices))
	taken := make(map[string]bool, len(invoices))
	for i, inv := range invoices {
		name, err := FileName(inv.Number)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", inv.Number, err)
		}
		base := strings.TrimSuffix(name, ".pdf")
		for n := 2; taken[name]; n++ {
			name = base + "-" + strconv.Itoa(n) + ".pdf"
		}
		taken[name] = true
		names[i] = name
	}
	return names, nil
}

// Render writes the PDF for one invoice to w
func (e *PDFExporter) Render(w io.Writer, inv *domain.Invoice) error {
	pdf := e.build(inv)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render invoice %s: %w", inv.Number, err)
	}
	return nil
}

// ExportAll renders invoices concurrently; paths keep the input order.
// The first failure cancels the rest.
func (e *PDFExporter) ExportAll(ctx context.Context, invoices []*domain.Invoice) ([]string, error) {
	names, err := uniqueNames(invoices)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(invoices))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, inv := range invoices {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := e.write(inv, names[i])
			if err != nil {
				return fmt.Errorf("%s: %w", inv.Number, err)
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (e *PDFExporter) build(inv *domain.Invoice) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Invoice "+inv.Number, true)
	pdf.SetCreator(e.branding.Name, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	r, g, b := hexColor(e.branding.PrimaryColor)

	e.addHeader(pdf, tr)
	addTitle(pdf, tr, inv, r, g, b)
	addBillTo(pdf, tr, inv)
	addItemsTable(pdf, tr, inv)
	addTotals(pdf, tr, inv, r, g, b)
	addFooter(pdf, tr, inv)

	return pdf
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, tr func(string) string) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	half := (pageW - left - right) / 2

	top := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(half, 7, tr(e.branding.Name), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.MultiCell(half, 4.5, tr(e.branding.Address), "", "L", false)
	pdf.CellFormat(half, 4.5, tr(e.branding.Phone), "", 1, "L", false, 0, "")
	bottom := pdf.GetY()

	pdf.SetXY(left+half, top)
	pdf.CellFormat(half, 4.5, tr(e.branding.Email), "", 2, "R", false, 0, "")
	pdf.CellFormat(half, 4.5, tr(e.branding.Website), "", 2, "R", false, 0, "")

	pdf.SetY(bottom + 4)
	pdf.SetDrawColor(226, 232, 240)
	pdf.Line(left, pdf.GetY(), pageW-right, pdf.GetY())
	pdf.Ln(6)
}

func addTitle(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice, r, g, b int) {
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(r, g, b)
	pdf.CellFormat(120, 11, "INVOICE", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(statusColor(inv.Status))
	pdf.CellFormat(0, 11, strings.ToUpper(string(inv.Status)), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 6, tr("#"+inv.Number), "", 1, "L", false, 0, "")
	pdf.Ln(5)
}

func addBillTo(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right
	top := pdf.GetY()

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.CellFormat(width/2, 5, "BILLED TO", "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(width/2, 6, tr(inv.CustomerName()), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(71, 85, 105)
	if inv.Customer != nil {
		pdf.CellFormat(width/2, 5, tr(inv.Customer.Email), "", 2, "L", false, 0, "")
		pdf.MultiCell(width/2, 5, tr(inv.Customer.Address), "", "L", false)
	}
	bottom := pdf.GetY()

	pdf.SetXY(left+width/2, top)
	dateRow(pdf, tr, width/2, "DATE ISSUED", dayOrDash(inv.Date.IsZero(), inv.Date.Format(domain.DateLayout)))
	dateRow(pdf, tr, width/2, "DUE DATE", dayOrDash(inv.DueDate.IsZero(), inv.DueDate.Format(domain.DateLayout)))

	if pdf.GetY() > bottom {
		bottom = pdf.GetY()
	}
	pdf.SetY(bottom + 6)
}

func dateRow(pdf *gofpdf.Fpdf, tr func(string) string, width float64, label, value string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(148, 163, 184)
	pdf.CellFormat(width, 5, label, "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(width, 6, tr(value), "", 2, "R", false, 0, "")
}

func addItemsTable(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	widths := []float64{90, 20, 35, 35}
	headers := []string{"DESCRIPTION", "QTY", "PRICE", "TOTAL"}
	aligns := []string{"L", "C", "R", "R"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.SetDrawColor(226, 232, 240)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "B", 0, aligns[i], false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range inv.Items {
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(widths[0], 9, tr(item.Description), "B", 0, aligns[0], false, 0, "")
		pdf.SetTextColor(71, 85, 105)
		pdf.CellFormat(widths[1], 9, strconv.FormatFloat(item.Quantity, 'f', -1, 64), "B", 0, aligns[1], false, 0, "")
		pdf.CellFormat(widths[2], 9, domain.FormatMoney(item.UnitPrice, inv.Currency), "B", 0, aligns[2], false, 0, "")
		pdf.SetTextColor(30, 41, 59)
		pdf.CellFormat(widths[3], 9, domain.FormatMoney(item.Total, inv.Currency), "B", 1, aligns[3], false, 0, "")
	}
	pdf.Ln(6)
}

func addTotals(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice, r, g, b int) {
	labelX := 110.0
	rows := []struct{ label, value string }{
		{"Subtotal", domain.FormatMoney(inv.Subtotal, inv.Currency)},
		{"VAT (18%)", domain.FormatMoney(inv.Tax, inv.Currency)},
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(71, 85, 105)
	for _, row := range rows {
		pdf.SetX(labelX)
		pdf.CellFormat(40, 7, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(row.value), "", 1, "R", false, 0, "")
	}

	pdf.SetX(labelX)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(40, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.SetTextColor(r, g, b)
	pdf.CellFormat(0, 10, tr(domain.FormatMoney(inv.Total, inv.Currency)), "T", 1, "R", false, 0, "")
	pdf.Ln(10)
}

func addFooter(pdf *gofpdf.Fpdf, tr func(string) string, inv *domain.Invoice) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, "Notes & Payment Terms:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, tr(PaymentTerms), "", "L", false)

	if inv.PaymentLink != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Pay online (Mobile Money / Mobile Banking):", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "U", 9)
		pdf.SetTextColor(37, 99, 235)
		pdf.CellFormat(0, 5, inv.PaymentLink, "", 1, "L", false, 0, inv.PaymentLink)
	}
}

func dayOrDash(zero bool, s string) string {
	if zero {
		return "-"
	}
	return s
}

func statusColor(status domain.InvoiceStatus) (int, int, int) {
	switch status {
	case domain.InvoiceStatusPaid:
		return 4, 120, 87
	case domain.InvoiceStatusOverdue:
		return 190, 18, 60
	default:
		return 180, 83, 9
	}
}

// hexColor parses "#rrggbb", falling back to blue-600
func hexColor(hex string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return 37, 99, 235
	}
	return r, g, b
}
