package ai

import (
	"context"
	"strings"
	"sync"
)

// ChatInstruction frames every assistant conversation
const ChatInstruction = "You are a helpful AI assistant for InvoiceFlow, a billing application for Ugandan businesses. " +
	"Your goal is to assist users with creating invoices, understanding business insights, " +
	"and answering general questions about the app features. Currency is UGX (Ugandan Shillings). " +
	"Keep responses concise and helpful."

// ChatGreeting opens a new conversation
const ChatGreeting = "Hi! I'm your InvoiceFlow assistant. Ask me about invoices, payments or your business insights."

// ChatSession is a multi-turn conversation with the assistant.
// Turns are recorded only when the model answers. History may be read
// while a Send is in flight; Sends are expected one at a time.
type ChatSession struct {
	completer Completer
	model     string

	mu      sync.Mutex
	history []Message
}

// NewChatSession starts an empty conversation. A nil completer fails every
// Send with ErrNoAPIKey.
func NewChatSession(completer Completer, model string) *ChatSession {
	return &ChatSession{completer: completer, model: model}
}

// Send asks the next question and returns the answer
func (c *ChatSession) Send(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}
	if c.completer == nil {
		return "", ErrNoAPIKey
	}

	c.mu.Lock()
	history := append([]Message(nil), c.history...)
	c.mu.Unlock()

	answer, err := c.completer.Complete(ctx, Request{
		Prompt:  text,
		System:  ChatInstruction,
		History: history,
		Model:   c.model,
	})
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyResponse
	}

	c.mu.Lock()
	c.history = append(c.history,
		Message{Role: RoleUser, Text: text},
		Message{Role: RoleModel, Text: answer},
	)
	c.mu.Unlock()
	return answer, nil
}

// History returns a copy of the recorded turns
func (c *ChatSession) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.history...)
}

// Reset forgets the conversation
func (c *ChatSession) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
}
