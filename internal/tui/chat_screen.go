package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/andy/invoiceflow/internal/app"
	"github.com/andy/invoiceflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// chatVisibleTurns bounds how much of the conversation is drawn
const chatVisibleTurns = 10

var (
	chatUserStyle      = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	chatAssistantStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	chatTextStyle      = lipgloss.NewStyle().Width(72).PaddingLeft(2)
)

// ChatModel is the assistant conversation. The session outlives visits to
// the screen; a question still waiting when the screen is left is dropped.
type ChatModel struct {
	app *app.App
	ctx context.Context
	gen int

	session *ai.ChatSession
	enabled bool

	input   textinput.Model
	spinner spinner.Model
	pending string
	err     error
}

type chatReplyMsg struct {
	mounted
	question string
	answer   string
	err      error
}

// NewChatModel creates the assistant screen
func NewChatModel(a *app.App) tea.Model {
	m := newChatModel(nil, a != nil && a.AIEnabled)
	m.app = a
	return m
}

func newChatModel(session *ai.ChatSession, enabled bool) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about invoices, VAT, payments..."
	ti.CharLimit = 1000
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	return &ChatModel{
		ctx:     context.Background(),
		session: session,
		enabled: enabled,
		input:   ti,
		spinner: s,
	}
}

// IsCapturingInput is always true: the question box owns the keyboard
func (m *ChatModel) IsCapturingInput() bool {
	return true
}

func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// answered reports whether question is the last one the session recorded
func (m *ChatModel) answered(question string) bool {
	if m.session == nil {
		return false
	}
	h := m.session.History()
	return len(h) >= 2 && h[len(h)-2].Text == question
}

func (m *ChatModel) ask(question string) tea.Cmd {
	ctx, gen, session := m.ctx, m.gen, m.session
	return func() tea.Msg {
		answer, err := session.Send(ctx, question)
		return chatReplyMsg{mounted: mounted{gen}, question: question, answer: answer, err: err}
	}
}

func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.ctx, m.gen = msg.Ctx, msg.Gen
		if m.session == nil && m.app != nil {
			m.session = m.app.NewChat()
		}
		if m.pending != "" {
			// Unanswered question from the previous visit goes back in the box
			if !m.answered(m.pending) {
				m.input.SetValue(m.pending)
			}
			m.pending = ""
		}
		m.err = nil
		return m, m.input.Focus()

	case chatReplyMsg:
		m.pending = ""
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return m, nil
			}
			m.err = fmt.Errorf("assistant: %w", msg.err)
			m.input.SetValue(msg.question)
			return m, nil
		}
		m.err = nil
		return m, nil

	case spinner.TickMsg:
		if m.pending == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, DefaultKeyMap.ClearChat):
			if m.pending == "" && m.session != nil {
				m.session.Reset()
				m.err = nil
			}
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Select):
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.pending != "" {
				return m, nil
			}
			if !m.enabled || m.session == nil {
				m.err = service.ErrAIUnavailable
				return m, nil
			}
			m.err = nil
			m.pending = question
			m.input.Reset()
			return m, tea.Batch(m.spinner.Tick, m.ask(question))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Assistant") + "\n\n")

	var turns []ai.Message
	if m.session != nil {
		turns = m.session.History()
	}
	if m.pending != "" {
		turns = append(turns, ai.Message{Role: ai.RoleUser, Text: m.pending})
	}

	if len(turns) == 0 {
		b.WriteString(subtitleStyle.Render("  "+ai.ChatGreeting) + "\n")
	} else if len(turns) > chatVisibleTurns {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  ... %d earlier messages", len(turns)-chatVisibleTurns)) + "\n\n")
		turns = turns[len(turns)-chatVisibleTurns:]
	}
	for _, t := range turns {
		if t.Role == ai.RoleUser {
			b.WriteString(chatUserStyle.Render("  You") + "\n")
		} else {
			b.WriteString(chatAssistantStyle.Render("  Assistant") + "\n")
		}
		b.WriteString(chatTextStyle.Render(t.Text) + "\n\n")
	}

	if m.pending != "" {
		b.WriteString("  " + m.spinner.View() + " Thinking...\n\n")
	}
	if !m.enabled {
		b.WriteString(warningStyle.Render("  AI is off: set GEMINI_API_KEY or API_KEY to chat.") + "\n\n")
	}

	b.WriteString("  > " + m.input.View() + "\n")
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("  enter: send  ctrl+l: new conversation  esc: back"))
	return b.String()
}
