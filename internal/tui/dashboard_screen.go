package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	recentInvoiceLimit = 5
	revenueBarWidth    = 30
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App
	ctx context.Context
	gen int

	// Data
	stats   *service.DashboardStats
	revenue []service.MonthRevenue
	recent  []*domain.Invoice

	// AI insights
	spinner  spinner.Model
	thinking bool
	insights string

	loading bool
	err     error
}

type dashboardDataMsg struct {
	mounted
	stats   *service.DashboardStats
	revenue []service.MonthRevenue
	recent  []*domain.Invoice
	err     error
}

type insightsMsg struct {
	mounted
	text string
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)
	return &DashboardModel{
		app:     a,
		ctx:     context.Background(),
		spinner: s,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return nil
}

func (m *DashboardModel) loadData() tea.Cmd {
	ctx, gen := m.ctx, m.gen
	return func() tea.Msg {
		msg := dashboardDataMsg{mounted: mounted{gen}}

		invoices, err := m.app.CatalogService.List(ctx)
		if err != nil {
			msg.err = fmt.Errorf("load invoices: %w", err)
			return msg
		}
		msg.stats = service.ComputeStats(invoices)

		msg.revenue, err = m.app.ReportService.RevenueByMonth(ctx)
		if err != nil {
			msg.err = fmt.Errorf("revenue by month: %w", err)
			return msg
		}

		if len(invoices) > recentInvoiceLimit {
			invoices = invoices[:recentInvoiceLimit]
		}
		msg.recent = invoices
		return msg
	}
}

func (m *DashboardModel) loadInsights() tea.Cmd {
	ctx, gen := m.ctx, m.gen
	return func() tea.Msg {
		return insightsMsg{mounted: mounted{gen}, text: m.app.ReportService.Insights(ctx)}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.ctx, m.gen = msg.Ctx, msg.Gen
		m.loading = true
		m.thinking = false
		return m, m.loadData()

	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.stats = msg.stats
		m.revenue = msg.revenue
		m.recent = msg.recent
		return m, nil

	case insightsMsg:
		m.thinking = false
		m.insights = msg.text
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Insights):
			if m.thinking || m.loading {
				return m, nil
			}
			m.thinking = true
			m.insights = ""
			return m, tea.Batch(m.spinner.Tick, m.loadInsights())
		case key.Matches(msg, DefaultKeyMap.Select):
			return m, func() tea.Msg { return NavigateMsg{View: ViewInvoices} }
		}
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(m.renderRevenue())
	b.WriteString("\n")
	b.WriteString(m.renderRecent())
	b.WriteString("\n")
	b.WriteString(m.renderInsights())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("a: AI insights  enter: all invoices"))
	return b.String()
}

func (m *DashboardModel) renderStats() string {
	currency := m.app.Config.Invoice.Currency
	card := func(label, value string) string {
		return boxStyle.Render(subtitleStyle.Render(label) + "\n" + statValueStyle.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total Revenue", formatMoney(m.stats.TotalRevenue, currency)),
		card("Pending", formatMoney(m.stats.PendingAmount, currency)),
		card("Invoices", fmt.Sprintf("%d", m.stats.TotalInvoices)),
		card("Paid / Overdue", fmt.Sprintf("%d / %d", m.stats.PaidCount, m.stats.OverdueCount)),
	)
}

func (m *DashboardModel) renderRevenue() string {
	s := titleStyle.Render("  Revenue by Month") + "\n"
	if len(m.revenue) == 0 {
		return s + subtitleStyle.Render("  No invoices yet") + "\n"
	}

	peak := decimal.Zero
	for _, r := range m.revenue {
		if r.Total.GreaterThan(peak) {
			peak = r.Total
		}
	}

	for _, r := range m.revenue {
		width := 0
		if peak.IsPositive() {
			width = int(r.Total.Mul(decimal.NewFromInt(revenueBarWidth)).Div(peak).IntPart())
		}
		s += fmt.Sprintf("  %-8s %s %s\n",
			r.Month.Format("Jan 06"),
			barStyle.Render(strings.Repeat("█", width)+strings.Repeat(" ", revenueBarWidth-width)),
			formatMoney(r.Total, m.app.Config.Invoice.Currency),
		)
	}
	return s
}

func (m *DashboardModel) renderRecent() string {
	s := titleStyle.Render("  Recent Invoices") + "\n"
	if len(m.recent) == 0 {
		return s + subtitleStyle.Render("  No invoices") + "\n"
	}
	for _, inv := range m.recent {
		s += fmt.Sprintf("  %-14s %-28s %16s  %s\n",
			inv.Number,
			truncateStr(inv.CustomerName(), 28),
			formatMoney(inv.Total, inv.Currency),
			statusBadge(inv.Status),
		)
	}
	return s
}

func (m *DashboardModel) renderInsights() string {
	s := titleStyle.Render("  AI Insights") + "\n"
	switch {
	case m.thinking:
		return s + "  " + m.spinner.View() + " Analyzing invoices...\n"
	case m.insights != "":
		wrapped := lipgloss.NewStyle().Width(72).Render(m.insights)
		return s + lipgloss.NewStyle().PaddingLeft(2).Render(wrapped) + "\n"
	case !m.app.AIEnabled:
		return s + subtitleStyle.Render("  Set GEMINI_API_KEY to enable insights") + "\n"
	default:
		return s + subtitleStyle.Render("  Press a to summarize your invoices") + "\n"
	}
}
