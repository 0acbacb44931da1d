package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"nonprofit-assistant/locale"
)

// OpenAIGateway implements Gateway for OpenAI and OpenAI-compatible servers
type OpenAIGateway struct {
	client *openai.Client
	config Config
}

// NewOpenAIGateway creates a new OpenAI gateway
func NewOpenAIGateway(config Config) (*OpenAIGateway, error) {
	// Allow empty API key for local OpenAI-compatible servers
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	return &OpenAIGateway{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// ChatRespond implements Gateway
func (g *OpenAIGateway) ChatRespond(ctx context.Context, prior []Message, msg Message, loc locale.Locale) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(prior)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemInstruction(loc, taskChat),
	})
	for _, m := range prior {
		converted, err := g.convertMessage(m)
		if err != nil {
			return "", err
		}
		messages = append(messages, converted)
	}
	converted, err := g.convertMessage(msg)
	if err != nil {
		return "", err
	}
	messages = append(messages, converted)

	return g.complete(ctx, messages)
}

// AnalyzeDocument implements Gateway
func (g *OpenAIGateway) AnalyzeDocument(ctx context.Context, att Attachment, question string, loc locale.Locale) (string, error) {
	converted, err := g.convertMessage(Message{Role: RoleUser, Text: question, Attachments: []Attachment{att}})
	if err != nil {
		return "", err
	}
	return g.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemInstruction(loc, taskAnalyze)},
		converted,
	})
}

// GenerateDocument implements Gateway
func (g *OpenAIGateway) GenerateDocument(ctx context.Context, templateName string, fields map[string]string, loc locale.Locale) (string, error) {
	return g.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemInstruction(loc, taskGenerate)},
		{Role: openai.ChatMessageRoleUser, Content: generationPrompt(templateName, fields, loc)},
	})
}

func (g *OpenAIGateway) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Messages:    messages,
		MaxTokens:   g.config.MaxTokens,
		Temperature: float32(g.config.Temperature),
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// convertMessage converts our Message type to OpenAI format, handling attachments.
// Images go as data URLs; text-like files are inlined; anything else is
// announced by type only since chat completions cannot carry it.
func (g *OpenAIGateway) convertMessage(msg Message) (openai.ChatCompletionMessage, error) {
	role := openai.ChatMessageRoleUser
	if msg.Role == RoleModel {
		role = openai.ChatMessageRoleAssistant
	}

	if len(msg.Attachments) == 0 {
		return openai.ChatCompletionMessage{Role: role, Content: msg.Text}, nil
	}

	multiContent := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: msg.Text},
	}

	for _, att := range msg.Attachments {
		switch {
		case isImage(att.MimeType):
			multiContent = append(multiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    att.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		case isTextLike(att.MimeType):
			data, err := decodeAttachment(att)
			if err != nil {
				return openai.ChatCompletionMessage{}, err
			}
			multiContent = append(multiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: string(data),
			})
		default:
			multiContent = append(multiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: fmt.Sprintf("[attachment: %s]", att.MimeType),
			})
		}
	}

	return openai.ChatCompletionMessage{Role: role, MultiContent: multiContent}, nil
}
