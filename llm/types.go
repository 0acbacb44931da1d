package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nonprofit-assistant/attachment"
	"nonprofit-assistant/locale"
	"nonprofit-assistant/utils"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Attachment is the payload a message or analysis request carries
type Attachment = attachment.Attachment

// Message represents a chat message
type Message struct {
	Role        Role         `json:"role"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Gateway is the generative-AI service as seen by the client. Every call
// blocks until the full answer is available; there is no streaming.
type Gateway interface {
	// ChatRespond answers msg given the conversation that preceded it
	ChatRespond(ctx context.Context, prior []Message, msg Message, loc locale.Locale) (string, error)

	// AnalyzeDocument answers a question about one attached document
	AnalyzeDocument(ctx context.Context, att Attachment, question string, loc locale.Locale) (string, error)

	// GenerateDocument drafts a document of the named type from the field values
	GenerateDocument(ctx context.Context, templateName string, fields map[string]string, loc locale.Locale) (string, error)
}

// ErrEmptyResponse is returned when the model answered without any text
var ErrEmptyResponse = errors.New("no content in response")

// Config represents provider configuration
type Config struct {
	Provider    string // "gemini", "openai" or "claude"
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// ConfigFrom maps the ai section of the application config
func ConfigFrom(c utils.AIConfig) Config {
	return Config{
		Provider:    c.Provider,
		APIKey:      c.ResolvedAPIKey(),
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	}
}

// New builds the gateway for cfg.Provider
func New(ctx context.Context, cfg Config) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		g, err := NewGeminiGateway(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		g, err := NewOpenAIGateway(cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "claude", "anthropic":
		g, err := NewClaudeGateway(cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q", cfg.Provider)
	}
}
