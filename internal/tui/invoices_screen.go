package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/domain"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// statusCycle is the order the status filter steps through
var statusCycle = []service.StatusFilter{
	service.StatusAll,
	service.StatusFilter(domain.InvoiceStatusPaid),
	service.StatusFilter(domain.InvoiceStatusPending),
	service.StatusFilter(domain.InvoiceStatusOverdue),
	service.StatusFilter(domain.InvoiceStatusDraft),
}

// InvoicesModel lists the catalog with search and status filtering
type InvoicesModel struct {
	app *app.App
	ctx context.Context
	gen int

	result    service.SearchResult
	cursor    int
	statusIdx int

	searchInput textinput.Model
	searching   bool

	loading bool
	err     error
}

// IsCapturingInput returns true while the search box has focus
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.searching
}

type invoicesDataMsg struct {
	mounted
	filter service.Filter
	result service.SearchResult
	err    error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	ti := textinput.New()
	ti.Placeholder = "Search by customer or number"
	ti.CharLimit = 80
	ti.Width = 40
	ti.Prompt = "/ "

	return &InvoicesModel{
		app:         a,
		ctx:         context.Background(),
		searchInput: ti,
		loading:     true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return nil
}

func (m *InvoicesModel) filter() service.Filter {
	return service.Filter{
		Query:  m.searchInput.Value(),
		Status: statusCycle[m.statusIdx],
	}
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	ctx, gen, f := m.ctx, m.gen, m.filter()
	return func() tea.Msg {
		result, err := m.app.CatalogService.Search(ctx, f)
		return invoicesDataMsg{mounted: mounted{gen}, filter: f, result: result, err: err}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.ctx, m.gen = msg.Ctx, msg.Gen
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		// Superseded by a later keystroke
		if msg.filter != m.filter() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.result = msg.result
		if m.cursor >= len(m.result.Invoices) {
			m.cursor = max(len(m.result.Invoices)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *InvoicesModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, m.loadInvoices()
	case key.Matches(msg, DefaultKeyMap.Select):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	prev := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != prev {
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadInvoices())
	}
	return m, cmd
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.result.Invoices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Search):
		m.searching = true
		return m, m.searchInput.Focus()
	case key.Matches(msg, DefaultKeyMap.Status):
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		m.cursor = 0
		return m, m.loadInvoices()
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.result.Invoices) > 0 {
			inv := m.result.Invoices[m.cursor]
			return m, func() tea.Msg { return OpenInvoiceMsg{Invoice: inv} }
		}
	case key.Matches(msg, DefaultKeyMap.Back):
		return m, func() tea.Msg { return BackMsg{} }
	}
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Invoices") + "\n\n")

	b.WriteString("  " + m.searchInput.View())
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("   Status: %s", statusCycle[m.statusIdx])) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n")
	}

	switch {
	case m.result.Empty():
		b.WriteString(subtitleStyle.Render("  No invoices match your search.") + "\n")
	case len(m.result.Invoices) == 0:
		b.WriteString(subtitleStyle.Render("  No invoices yet. Press 'n' to create one.") + "\n")
	default:
		b.WriteString(subtitleStyle.Render(fmt.Sprintf(
			"  %-14s  %-28s  %-12s  %16s  %s",
			"Number", "Customer", "Date", "Total", "Status",
		)) + "\n")

		for i, inv := range m.result.Invoices {
			line := fmt.Sprintf("  %-14s  %-28s  %-12s  %16s  ",
				inv.Number,
				truncateStr(inv.CustomerName(), 28),
				inv.Date.Format("Jan 02, 2006"),
				formatMoney(inv.Total, inv.Currency),
			)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render(line+string(inv.Status)) + "\n")
			} else {
				b.WriteString(line + statusBadge(inv.Status) + "\n")
			}
		}
	}

	b.WriteString("\n" + helpStyle.Render("  j/k: navigate  enter: open  /: search  s: status filter  esc: back"))
	return b.String()
}
