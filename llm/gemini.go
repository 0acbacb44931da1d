package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"nonprofit-assistant/locale"
)

// GeminiGateway implements Gateway on top of the Google GenAI SDK
type GeminiGateway struct {
	client *genai.Client
	config Config
}

// NewGeminiGateway creates a new Gemini gateway
func NewGeminiGateway(ctx context.Context, config Config) (*GeminiGateway, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required")
	}

	// Set defaults
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 8192
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiGateway{client: client, config: config}, nil
}

// ChatRespond implements Gateway
func (g *GeminiGateway) ChatRespond(ctx context.Context, prior []Message, msg Message, loc locale.Locale) (string, error) {
	contents := make([]*genai.Content, 0, len(prior)+1)
	for _, m := range append(prior[:len(prior):len(prior)], msg) {
		content, err := g.convertMessage(m)
		if err != nil {
			return "", err
		}
		contents = append(contents, content)
	}
	return g.generate(ctx, contents, systemInstruction(loc, taskChat))
}

// AnalyzeDocument implements Gateway
func (g *GeminiGateway) AnalyzeDocument(ctx context.Context, att Attachment, question string, loc locale.Locale) (string, error) {
	content, err := g.convertMessage(Message{Role: RoleUser, Text: question, Attachments: []Attachment{att}})
	if err != nil {
		return "", err
	}
	return g.generate(ctx, []*genai.Content{content}, systemInstruction(loc, taskAnalyze))
}

// GenerateDocument implements Gateway
func (g *GeminiGateway) GenerateDocument(ctx context.Context, templateName string, fields map[string]string, loc locale.Locale) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(generationPrompt(templateName, fields, loc), genai.RoleUser),
	}
	return g.generate(ctx, contents, systemInstruction(loc, taskGenerate))
}

func (g *GeminiGateway) generate(ctx context.Context, contents []*genai.Content, system string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   int32(g.config.MaxTokens),
	}
	if g.config.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(g.config.Temperature))
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// convertMessage maps our Message onto Gemini content; attachments travel as inline bytes
func (g *GeminiGateway) convertMessage(m Message) (*genai.Content, error) {
	parts := make([]*genai.Part, 0, len(m.Attachments)+1)
	if m.Text != "" {
		parts = append(parts, genai.NewPartFromText(m.Text))
	}
	for _, att := range m.Attachments {
		data, err := decodeAttachment(att)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.NewPartFromBytes(data, att.MimeType))
	}

	role := genai.RoleUser
	if m.Role == RoleModel {
		role = genai.RoleModel
	}
	return genai.NewContentFromParts(parts, genai.Role(role)), nil
}
