package ai

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// GeminiCompleter is a Completer backed by the Gemini API
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiCompleter creates a client for the Gemini API.
// A zero timeout leaves calls bounded only by the caller's context.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	return &GeminiCompleter{client: client, model: model, timeout: timeout}, nil
}

// Complete implements Completer
func (g *GeminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.model
	if req.Model != "" {
		model = req.Model
	}

	var config *genai.GenerateContentConfig
	if req.Schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   toGenaiSchema(req.Schema),
		}
	}

	if req.System != "" || len(req.History) > 0 {
		return g.chat(ctx, model, config, req)
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// chat replays the history into a chat session and sends the prompt as the next turn
func (g *GeminiCompleter) chat(ctx context.Context, model string, config *genai.GenerateContentConfig, req Request) (string, error) {
	if config == nil {
		config = &genai.GenerateContentConfig{}
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	history := make([]*genai.Content, 0, len(req.History))
	for _, m := range req.History {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		history = append(history, genai.NewContentFromText(m.Text, role))
	}

	session, err := g.client.Chats.Create(ctx, model, config, history)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	resp, err := session.SendMessage(ctx, genai.Part{Text: req.Prompt})
	if err != nil {
		return "", fmt.Errorf("send chat message: %w", err)
	}
	return resp.Text(), nil
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:     genaiType(s.Type),
		Items:    toGenaiSchema(s.Items),
		Required: s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeNumber:
		return genai.TypeNumber
	default:
		return genai.TypeString
	}
}
