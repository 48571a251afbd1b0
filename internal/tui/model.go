package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/config"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the root Bubble Tea model
type Model struct {
	app    *app.App
	router *Router
	width  int
	height int

	// ctx belongs to the mounted screen and is cancelled when it is left
	ctx    context.Context
	cancel context.CancelFunc

	// Screen models (lazy initialized)
	dashboard tea.Model
	invoices  tea.Model
	builder   tea.Model
	details   tea.Model
	settings  tea.Model
	chat      tea.Model

	// Error state
	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:    a,
		router: NewRouter(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return NavigateMsg{View: ViewDashboard} }
}

// screen returns the model for view, creating it on first use
func (m *Model) screen(view View) tea.Model {
	switch view {
	case ViewDashboard:
		if m.dashboard == nil {
			m.dashboard = NewDashboardModel(m.app)
		}
		return m.dashboard
	case ViewInvoices:
		if m.invoices == nil {
			m.invoices = NewInvoicesModel(m.app)
		}
		return m.invoices
	case ViewCreate:
		if m.builder == nil {
			m.builder = NewBuilderModel(m.app)
		}
		return m.builder
	case ViewDetails:
		if m.details == nil {
			m.details = NewDetailsModel(m.app)
		}
		return m.details
	case ViewSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
		}
		return m.settings
	case ViewChat:
		if m.chat == nil {
			m.chat = NewChatModel(m.app)
		}
		return m.chat
	}
	return nil
}

func (m *Model) setScreen(view View, s tea.Model) {
	switch view {
	case ViewDashboard:
		m.dashboard = s
	case ViewInvoices:
		m.invoices = s
	case ViewCreate:
		m.builder = s
	case ViewDetails:
		m.details = s
	case ViewSettings:
		m.settings = s
	case ViewChat:
		m.chat = s
	}
}

// mount cancels work issued by the previous screen and refreshes the current one
func (m *Model) mount() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.err = nil

	view := m.router.Current()
	s := m.screen(view)
	initCmd := s.Init()
	s, cmd := s.Update(RefreshDataMsg{
		Ctx:     m.ctx,
		Gen:     m.router.Generation(),
		Invoice: m.router.Selected(),
	})
	m.setScreen(view, s)
	return tea.Batch(initCmd, cmd)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screen(m.router.Current()).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.ForceQuit) {
			m.shutdown()
			return m, tea.Quit
		}

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				m.shutdown()
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Dashboard):
				m.router.Navigate(ViewDashboard)
				return m, m.mount()

			case key.Matches(msg, DefaultKeyMap.Invoices):
				m.router.Navigate(ViewInvoices)
				return m, m.mount()

			case key.Matches(msg, DefaultKeyMap.NewInvoice):
				m.router.Navigate(ViewCreate)
				return m, m.mount()

			case key.Matches(msg, DefaultKeyMap.Settings):
				m.router.Navigate(ViewSettings)
				return m, m.mount()

			case key.Matches(msg, DefaultKeyMap.Chat):
				m.router.Navigate(ViewChat)
				return m, m.mount()
			}
		}

	case NavigateMsg:
		m.router.Navigate(msg.View)
		return m, m.mount()

	case OpenInvoiceMsg:
		m.router.Open(msg.Invoice)
		return m, m.mount()

	case BackMsg:
		m.router.Back()
		return m, m.mount()

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case generational:
		// Result for a screen that has since been left
		if msg.viewGen() != m.router.Generation() {
			return m, nil
		}
	}

	// Route message to current screen
	view := m.router.Current()
	s := m.screen(view)
	s, cmd := s.Update(msg)
	m.setScreen(view, s)

	return m, cmd
}

func (m *Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	view := m.router.Current()

	header := headerStyle.Render(fmt.Sprintf("InvoiceFlow - %s", view.String()))
	if !m.app.AIEnabled {
		header += subtitleStyle.Render("  (AI off)")
	}

	footer := footerStyle.Render("[1] Dashboard  [2] Invoices  [3] New Invoice  [,] Settings  [C]hat  [Q]uit")

	content := "Loading..."
	if s := m.screen(view); s != nil {
		content = s.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI. Log output goes to the debug log while it runs.
func Run(a *app.App) error {
	f, err := tea.LogToFile(config.LogPath(), "invoiceflow")
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer f.Close()

	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
