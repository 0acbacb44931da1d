package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"nonprofit-assistant/locale"
)

// ClaudeGateway implements Gateway for Anthropic Claude
type ClaudeGateway struct {
	client anthropic.Client
	config Config
}

// NewClaudeGateway creates a new Claude gateway
func NewClaudeGateway(config Config) (*ClaudeGateway, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required")
	}

	if config.Model == "" {
		config.Model = "claude-sonnet-4-5"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &ClaudeGateway{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// ChatRespond implements Gateway
func (g *ClaudeGateway) ChatRespond(ctx context.Context, prior []Message, msg Message, loc locale.Locale) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(prior)+1)
	for _, m := range prior {
		converted, err := convertClaudeMessage(m)
		if err != nil {
			return "", err
		}
		messages = append(messages, converted)
	}
	converted, err := convertClaudeMessage(msg)
	if err != nil {
		return "", err
	}
	messages = append(messages, converted)

	return g.send(ctx, messages, systemInstruction(loc, taskChat))
}

// AnalyzeDocument implements Gateway
func (g *ClaudeGateway) AnalyzeDocument(ctx context.Context, att Attachment, question string, loc locale.Locale) (string, error) {
	converted, err := convertClaudeMessage(Message{Role: RoleUser, Text: question, Attachments: []Attachment{att}})
	if err != nil {
		return "", err
	}
	return g.send(ctx, []anthropic.MessageParam{converted}, systemInstruction(loc, taskAnalyze))
}

// GenerateDocument implements Gateway
func (g *ClaudeGateway) GenerateDocument(ctx context.Context, templateName string, fields map[string]string, loc locale.Locale) (string, error) {
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(generationPrompt(templateName, fields, loc))),
	}
	return g.send(ctx, messages, systemInstruction(loc, taskGenerate))
}

func (g *ClaudeGateway) send(ctx context.Context, messages []anthropic.MessageParam, system string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(g.config.MaxTokens),
		Messages:  messages,
		System:    []anthropic.TextBlockParam{{Text: system}},
	}
	if g.config.Temperature > 0 {
		params.Temperature = anthropic.Float(g.config.Temperature)
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude request failed: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(v.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// convertClaudeMessage maps a Message onto Claude content blocks.
// PDFs and text files travel as document blocks, images as base64 image blocks.
func convertClaudeMessage(m Message) (anthropic.MessageParam, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Attachments)+1)
	for _, att := range m.Attachments {
		switch {
		case isImage(att.MimeType):
			blocks = append(blocks, anthropic.NewImageBlockBase64(att.MimeType, att.Data))
		case att.MimeType == "application/pdf":
			blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.Base64PDFSourceParam{Data: att.Data}))
		case isTextLike(att.MimeType):
			data, err := decodeAttachment(att)
			if err != nil {
				return anthropic.MessageParam{}, err
			}
			blocks = append(blocks, anthropic.NewDocumentBlock(anthropic.PlainTextSourceParam{Data: string(data)}))
		default:
			blocks = append(blocks, anthropic.NewTextBlock(fmt.Sprintf("[attachment: %s]", att.MimeType)))
		}
	}
	if m.Text != "" {
		blocks = append(blocks, anthropic.NewTextBlock(m.Text))
	}

	if m.Role == RoleModel {
		return anthropic.NewAssistantMessage(blocks...), nil
	}
	return anthropic.NewUserMessage(blocks...), nil
}
