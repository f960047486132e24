package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiConfig configures the Gemini inference gateway.
type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL and HTTPClient are optional overrides, mostly for tests.
	BaseURL    string
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Gemini is a stateless request/response wrapper around the Gemini
// generateContent API. It never retries.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewGemini creates a gateway backed by the Gemini API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger.With("component", "gemini", "model", cfg.Model),
	}, nil
}

// Generate sends the transcript to the model and returns its next action.
// Only the first part of the first candidate is consulted; a function call
// in that part wins over text.
func (g *Gemini) Generate(ctx context.Context, req Request) (Action, error) {
	contents := make([]*genai.Content, 0, len(req.Transcript))
	for _, m := range req.Transcript {
		contents = append(contents, genai.NewContentFromText(m.Text, genai.Role(m.Role)))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, generateConfig(req))
	if err != nil {
		return Action{}, fmt.Errorf("calling gemini: %w", err)
	}

	action, err := actionFromResponse(resp)
	if err != nil {
		return Action{}, err
	}

	switch action.Kind {
	case ActionToolCall:
		g.logger.Debug("response", "kind", action.Kind, "tool", action.Call.Name, "args", action.Call.Args)
	default:
		g.logger.Debug("response", "kind", action.Kind, "content_len", len(action.Text))
	}
	return action, nil
}

func generateConfig(req Request) *genai.GenerateContentConfig {
	if len(req.Tools) == 0 && req.System == "" {
		return nil
	}
	cfg := &genai.GenerateContentConfig{}
	if len(req.Tools) > 0 {
		cfg.Tools = []*genai.Tool{{FunctionDeclarations: req.Tools}}
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.System)}}
	}
	return cfg
}

func actionFromResponse(resp *genai.GenerateContentResponse) (Action, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return Action{}, fmt.Errorf("%w: no candidates", ErrNoAction)
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return Action{}, fmt.Errorf("%w: empty content", ErrNoAction)
	}

	part := content.Parts[0]
	if fc := part.FunctionCall; fc != nil && fc.Name != "" {
		return ToolCallAction(fc.Name, fc.Args), nil
	}
	if part.Text != "" {
		return TextAction(part.Text), nil
	}
	return Action{}, ErrNoAction
}
