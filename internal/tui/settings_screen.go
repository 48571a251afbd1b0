package tui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/config"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldWebhookURL = iota
	settingsFieldOutputDir
	settingsFieldPrefix
	settingsFieldDueDays
	settingsFieldPaymentBase
	settingsFieldCompanyName
	settingsFieldCompanyEmail
	settingsFieldCompanyPhone
	settingsFieldCount
)

var settingsLabels = [settingsFieldCount]string{
	"Webhook URL:",
	"Output Directory:",
	"Number Prefix:",
	"Default Due Days:",
	"Payment Link Base:",
	"Company Name:",
	"Company Email:",
	"Company Phone:",
}

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	cfg := m.app.Config
	values := [settingsFieldCount]string{
		cfg.Webhook.URL,
		cfg.Invoice.OutputDir,
		cfg.Invoice.NumberPrefix,
		strconv.Itoa(cfg.Invoice.DefaultDueDays),
		cfg.Payment.LinkBaseURL,
		cfg.Company.Name,
		cfg.Company.Email,
		cfg.Company.Phone,
	}

	m.fields = make([]textinput.Model, settingsFieldCount)
	for i := range m.fields {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 60
		ti.SetValue(values[i])
		m.fields[i] = ti
	}
	m.fields[settingsFieldWebhookURL].Placeholder = "https://hooks.example.com/invoices (empty disables)"
	m.fields[settingsFieldPrefix].CharLimit = 20
	m.fields[settingsFieldDueDays].CharLimit = 5

	m.fieldFocus = settingsFieldWebhookURL
	m.fields[settingsFieldWebhookURL].Focus()
}

// validateSettings checks the form values before they reach the config
func validateSettings(values []string) error {
	if hook := strings.TrimSpace(values[settingsFieldWebhookURL]); hook != "" {
		if err := checkHTTPURL(hook); err != nil {
			return fmt.Errorf("webhook URL: %w", err)
		}
	}
	if strings.TrimSpace(values[settingsFieldOutputDir]) == "" {
		return fmt.Errorf("output directory is required")
	}
	if strings.TrimSpace(values[settingsFieldPrefix]) == "" {
		return fmt.Errorf("invoice prefix is required")
	}
	if dueDays, err := strconv.Atoi(values[settingsFieldDueDays]); err != nil || dueDays <= 0 {
		return fmt.Errorf("due days must be a positive number")
	}
	if err := checkHTTPURL(strings.TrimSpace(values[settingsFieldPaymentBase])); err != nil {
		return fmt.Errorf("payment link base: %w", err)
	}
	return nil
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", raw)
	}
	return nil
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	values := make([]string, len(m.fields))
	for i, f := range m.fields {
		values[i] = f.Value()
	}
	return func() tea.Msg {
		if err := validateSettings(values); err != nil {
			return settingsSavedMsg{err: err}
		}
		dueDays, _ := strconv.Atoi(values[settingsFieldDueDays])

		cfg := m.app.Config
		cfg.Webhook.URL = strings.TrimSpace(values[settingsFieldWebhookURL])
		cfg.Invoice.OutputDir = strings.TrimSpace(values[settingsFieldOutputDir])
		cfg.Invoice.NumberPrefix = strings.TrimSpace(values[settingsFieldPrefix])
		cfg.Invoice.DefaultDueDays = dueDays
		cfg.Payment.LinkBaseURL = strings.TrimSpace(values[settingsFieldPaymentBase])
		cfg.Company.Name = values[settingsFieldCompanyName]
		cfg.Company.Email = values[settingsFieldCompanyEmail]
		cfg.Company.Phone = values[settingsFieldCompanyPhone]

		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.statusMsg = ""
		m.err = nil
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		case "esc":
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved. Webhook, export, and branding changes apply on next start."
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(label, value string) string {
		if value == "" {
			return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), subtitleStyle.Render("(not set)"))
		}
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	s += subtitleStyle.Render("  Integrations") + "\n\n"
	s += row("Webhook URL:", cfg.Webhook.URL)
	s += row("Payment Link Base:", cfg.Payment.LinkBaseURL)
	ai := "disabled (set " + config.EnvGeminiAPIKey + ")"
	if m.app.AIEnabled {
		ai = "enabled, " + cfg.AI.Model
	}
	s += row("AI:", ai)

	s += "\n" + subtitleStyle.Render("  Invoices") + "\n\n"
	s += row("Currency:", cfg.Invoice.Currency)
	s += row("VAT:", "18%")
	s += row("Output Directory:", cfg.Invoice.OutputDir)
	s += row("Number Prefix:", cfg.Invoice.NumberPrefix)
	s += row("Default Due Days:", strconv.Itoa(cfg.Invoice.DefaultDueDays))

	s += "\n" + subtitleStyle.Render("  Company") + "\n\n"
	s += row("Name:", cfg.Company.Name)
	s += row("Email:", cfg.Company.Email)
	s += row("Phone:", cfg.Company.Phone)

	s += "\n" + subtitleStyle.Render("  Files") + "\n\n"
	s += row("Config:", config.DefaultConfigPath())
	s += row("Database:", cfg.Database.Path)
	s += row("Debug Log:", config.LogPath())

	s += "\n" + helpStyle.Render("  enter: edit settings  esc: back")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	for i, label := range settingsLabels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}
