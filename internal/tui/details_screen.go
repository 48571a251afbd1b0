package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DetailsModel previews one invoice and offers payment link, export, and edit
type DetailsModel struct {
	app *app.App
	ctx context.Context
	gen int

	invoice *domain.Invoice

	// Payment link flow
	linkState   service.PaymentLinkState
	link        string
	linkWarning string
	spinner     spinner.Model

	statusMsg string
	err       error
}

type paymentLinkMsg struct {
	mounted
	result service.PaymentLinkResult
	err    error
}

type exportDoneMsg struct {
	mounted
	path string
	err  error
}

type editLoadedMsg struct {
	mounted
	err error
}

// NewDetailsModel creates the invoice details screen
func NewDetailsModel(a *app.App) tea.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)
	return &DetailsModel{
		app:       a,
		ctx:       context.Background(),
		spinner:   s,
		linkState: service.PaymentLinkIdle,
	}
}

func (m *DetailsModel) Init() tea.Cmd {
	return nil
}

func (m *DetailsModel) generateLink() tea.Cmd {
	ctx, gen, inv := m.ctx, m.gen, m.invoice
	return func() tea.Msg {
		res, err := m.app.PaymentLinkService.Generate(ctx, inv)
		return paymentLinkMsg{mounted: mounted{gen}, result: res, err: err}
	}
}

func (m *DetailsModel) exportPDF() tea.Cmd {
	gen, inv := m.gen, m.invoice
	return func() tea.Msg {
		path, err := m.app.Exporter.Export(inv)
		return exportDoneMsg{mounted: mounted{gen}, path: path, err: err}
	}
}

func (m *DetailsModel) loadAsDraft() tea.Cmd {
	ctx, gen, inv := m.ctx, m.gen, m.invoice
	return func() tea.Msg {
		_, err := m.app.DraftService.LoadFromInvoice(ctx, inv)
		return editLoadedMsg{mounted: mounted{gen}, err: err}
	}
}

func (m *DetailsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.ctx, m.gen = msg.Ctx, msg.Gen
		m.invoice = msg.Invoice
		m.linkState = service.PaymentLinkIdle
		m.link = ""
		m.linkWarning = ""
		m.statusMsg = ""
		m.err = nil
		if m.invoice != nil && m.invoice.PaymentLink != "" {
			m.linkState = service.PaymentLinkReady
			m.link = m.invoice.PaymentLink
		}
		return m, nil

	case paymentLinkMsg:
		if msg.err != nil {
			m.linkState = service.PaymentLinkIdle
			if !errors.Is(msg.err, context.Canceled) {
				m.err = msg.err
			}
			return m, nil
		}
		m.linkState = msg.result.State
		m.link = msg.result.Link
		m.linkWarning = msg.result.Warning
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("export failed: %w", msg.err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Saved %s", msg.path)
		return m, nil

	case editLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, func() tea.Msg { return NavigateMsg{View: ViewCreate} }

	case spinner.TickMsg:
		if m.linkState != service.PaymentLinkRequesting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.invoice == nil {
			return m, nil
		}
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, DefaultKeyMap.PayLink):
			if m.linkState != service.PaymentLinkIdle {
				return m, nil
			}
			m.linkState = service.PaymentLinkRequesting
			m.linkWarning = ""
			return m, tea.Batch(m.spinner.Tick, m.generateLink())
		case key.Matches(msg, DefaultKeyMap.Export):
			m.statusMsg = "Exporting..."
			return m, m.exportPDF()
		case key.Matches(msg, DefaultKeyMap.Edit):
			return m, m.loadAsDraft()
		}
	}

	return m, nil
}

func (m *DetailsModel) View() string {
	inv := m.invoice
	if inv == nil {
		return "No invoice selected"
	}

	var b strings.Builder
	b.WriteString(renderInvoice(inv, m.app.Config.Company.Name))

	b.WriteString("\n" + titleStyle.Render("  Payment") + "\n")
	switch m.linkState {
	case service.PaymentLinkRequesting:
		b.WriteString("  " + m.spinner.View() + " Requesting payment link...\n")
	case service.PaymentLinkReady:
		b.WriteString("  Mobile Money / Mobile Banking: " + helpStyle.Render(m.link) + "\n")
		if m.linkWarning != "" {
			b.WriteString(warningStyle.Render("  "+m.linkWarning) + "\n")
		}
	default:
		b.WriteString(subtitleStyle.Render("  Press p to generate a payment link") + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + successStyle.Render("  "+m.statusMsg) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("  p: payment link  x: export pdf  e: edit as draft  esc: back"))
	return b.String()
}

// renderInvoice draws the invoice preview used by details and the builder
func renderInvoice(inv *domain.Invoice, issuer string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Invoice %s", inv.Number)))
	b.WriteString("  " + statusBadge(inv.Status) + "\n")
	if issuer != "" {
		b.WriteString(subtitleStyle.Render("  from "+issuer) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  Bill to:  %s\n", inv.CustomerName()))
	if inv.Customer != nil {
		if inv.Customer.Email != "" {
			b.WriteString(fmt.Sprintf("            %s\n", inv.Customer.Email))
		}
		for _, line := range strings.Split(inv.Customer.Address, "\n") {
			if line != "" {
				b.WriteString(fmt.Sprintf("            %s\n", line))
			}
		}
	}
	b.WriteString(fmt.Sprintf("  Date:     %s\n", formatDate(inv.Date)))
	b.WriteString(fmt.Sprintf("  Due:      %s\n", formatDate(inv.DueDate)))
	b.WriteString("\n")

	if len(inv.Items) == 0 {
		b.WriteString(subtitleStyle.Render("  No line items") + "\n")
	} else {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(
			"  %-34s  %6s  %16s  %16s",
			"Description", "Qty", "Unit Price", "Amount",
		)) + "\n")
		for _, item := range inv.Items {
			b.WriteString(fmt.Sprintf("  %-34s  %6s  %16s  %16s\n",
				truncateStr(item.Description, 34),
				formatAmount(item.Quantity),
				formatMoney(item.UnitPrice, inv.Currency),
				formatMoney(item.Total, inv.Currency),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %-12s %16s\n", "Subtotal:", formatMoney(inv.Subtotal, inv.Currency)))
	b.WriteString(fmt.Sprintf("  %-12s %16s\n", "VAT (18%):", formatMoney(inv.Tax, inv.Currency)))
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  %-12s %16s", "Total:", formatMoney(inv.Total, inv.Currency)),
	) + "\n")
	return b.String()
}
