package ai

import (
	"context"
	"errors"
)

var (
	ErrNoAPIKey          = errors.New("AI API key is not configured")
	ErrEmptyInput        = errors.New("input text is empty")
	ErrEmptyResponse     = errors.New("AI returned an empty response")
	ErrMalformedResponse = errors.New("AI response is not valid JSON")
	ErrSchemaViolation   = errors.New("AI response does not match the expected shape")
)

// SchemaType names a JSON value kind in a response schema
type SchemaType string

const (
	TypeObject SchemaType = "object"
	TypeArray  SchemaType = "array"
	TypeString SchemaType = "string"
	TypeNumber SchemaType = "number"
)

// Schema constrains a structured completion
type Schema struct {
	Type       SchemaType
	Properties map[string]*Schema
	Items      *Schema
	Required   []string
}

// Role is the author of a conversation turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation
type Message struct {
	Role Role
	Text string
}

// Request is a single completion call
type Request struct {
	Prompt string
	// Schema, when set, asks for a JSON response of that shape
	Schema *Schema
	// System and History turn the call into the next turn of a conversation
	System  string
	History []Message
	// Model overrides the completer's default model
	Model string
}

// Completer sends a prompt to a generative model and returns its text
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}
