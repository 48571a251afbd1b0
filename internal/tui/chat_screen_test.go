package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/invoiceflow/internal/ai"
	"github.com/andy/invoiceflow/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	answer string
	err    error
}

func (s *stubCompleter) Complete(ctx context.Context, req ai.Request) (string, error) {
	return s.answer, s.err
}

// replies runs cmd and collects the chat replies it produces
func replies(cmd tea.Cmd) []chatReplyMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []chatReplyMsg
		for _, c := range msg {
			out = append(out, replies(c)...)
		}
		return out
	case chatReplyMsg:
		return []chatReplyMsg{msg}
	}
	return nil
}

func mountedChat(t *testing.T, c ai.Completer) *ChatModel {
	t.Helper()
	m := newChatModel(ai.NewChatSession(c, ""), true)
	m.Update(RefreshDataMsg{Ctx: context.Background(), Gen: 1})
	return m
}

func TestChatModel_AskAndAnswer(t *testing.T) {
	m := mountedChat(t, &stubCompleter{answer: "VAT is 18% of the subtotal."})
	m.input.SetValue("How is VAT calculated?")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "How is VAT calculated?", m.pending)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "Thinking")

	got := replies(cmd)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].viewGen())

	m.Update(got[0])
	assert.Empty(t, m.pending)
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "VAT is 18% of the subtotal.")
	assert.Contains(t, m.View(), "How is VAT calculated?")
}

func TestChatModel_FailureRestoresQuestion(t *testing.T) {
	m := mountedChat(t, &stubCompleter{err: errors.New("quota exceeded")})
	m.input.SetValue("Who owes me money?")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := replies(cmd)
	require.Len(t, got, 1)

	m.Update(got[0])
	assert.ErrorContains(t, m.err, "quota exceeded")
	assert.Equal(t, "Who owes me money?", m.input.Value())
	assert.Empty(t, m.session.History())
}

func TestChatModel_Disabled(t *testing.T) {
	m := newChatModel(ai.NewChatSession(nil, ""), false)
	m.Update(RefreshDataMsg{Ctx: context.Background(), Gen: 1})
	m.input.SetValue("hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.err, service.ErrAIUnavailable)
	assert.Contains(t, m.View(), "AI is off")
}

func TestChatModel_ClearConversation(t *testing.T) {
	m := mountedChat(t, &stubCompleter{answer: "Hello!"})
	m.input.SetValue("hi")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for _, r := range replies(cmd) {
		m.Update(r)
	}
	require.Len(t, m.session.History(), 2)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, m.session.History())
	assert.Contains(t, m.View(), ai.ChatGreeting)
}

func TestModel_ChatKeyOpensAssistant(t *testing.T) {
	m := New(nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	assert.Equal(t, ViewChat, next.(Model).router.Current())
}
