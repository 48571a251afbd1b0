package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_RecordsTurns(t *testing.T) {
	ctx := context.Background()
	fake := &fakeCompleter{response: "Open New Invoice and press ctrl+e to send it."}
	chat := NewChatSession(fake, "gemini-2.5-pro")

	answer, err := chat.Send(ctx, "  How do I send an invoice? ")
	require.NoError(t, err)
	assert.Equal(t, "Open New Invoice and press ctrl+e to send it.", answer)

	assert.Equal(t, "How do I send an invoice?", fake.last.Prompt)
	assert.Equal(t, ChatInstruction, fake.last.System)
	assert.Equal(t, "gemini-2.5-pro", fake.last.Model)
	assert.Empty(t, fake.last.History)
	assert.Nil(t, fake.last.Schema)

	fake.response = "Amounts are in UGX."
	_, err = chat.Send(ctx, "Which currency?")
	require.NoError(t, err)

	assert.Equal(t, []Message{
		{Role: RoleUser, Text: "How do I send an invoice?"},
		{Role: RoleModel, Text: "Open New Invoice and press ctrl+e to send it."},
	}, fake.last.History)
	assert.Len(t, chat.History(), 4)
}

func TestChat_FailedTurnIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	network := errors.New("connection reset")

	tests := []struct {
		name     string
		response string
		err      error
		want     error
	}{
		{name: "transport", err: network, want: network},
		{name: "empty answer", response: "  ", want: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := NewChatSession(&fakeCompleter{response: tt.response, err: tt.err}, "")
			_, err := chat.Send(ctx, "hello")
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, chat.History())
		})
	}
}

func TestChat_EmptyInputSkipsCall(t *testing.T) {
	fake := &fakeCompleter{}
	_, err := NewChatSession(fake, "").Send(context.Background(), " \n")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, fake.calls)
}

func TestChat_NoCompleter(t *testing.T) {
	_, err := NewChatSession(nil, "").Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestChat_Reset(t *testing.T) {
	chat := NewChatSession(&fakeCompleter{response: "hi"}, "")
	_, err := chat.Send(context.Background(), "hello")
	require.NoError(t, err)

	chat.Reset()
	assert.Empty(t, chat.History())
}
