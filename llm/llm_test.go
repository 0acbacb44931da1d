package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nonprofit-assistant/locale"
)

func TestGenerationPrompt_StableOrder(t *testing.T) {
	fields := map[string]string{"tenant_name": "Karim", "address": "Rabat", "landlord_name": ""}
	p := generationPrompt("Contrat de bail", fields, locale.French)

	assert.True(t, strings.HasPrefix(p, "Type de document : Contrat de bail\n"))
	assert.Less(t, strings.Index(p, "- address: Rabat"), strings.Index(p, "- landlord_name: "))
	assert.Less(t, strings.Index(p, "- landlord_name: "), strings.Index(p, "- tenant_name: Karim"))
	assert.Equal(t, p, generationPrompt("Contrat de bail", fields, locale.French))
}

func TestGenerationPrompt_Arabic(t *testing.T) {
	p := generationPrompt("عقد كراء", map[string]string{}, locale.Arabic)
	assert.Contains(t, p, "عقد كراء")
	assert.Contains(t, p, "نوع الوثيقة")
}

func TestSystemInstruction_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, systemInstruction(locale.French, taskChat), systemInstruction(locale.Locale("en"), taskChat))
	assert.NotEqual(t, systemInstruction(locale.French, taskChat), systemInstruction(locale.Arabic, taskChat))
}

func TestDecodeAttachment(t *testing.T) {
	data, err := decodeAttachment(Attachment{Data: base64.StdEncoding.EncodeToString([]byte("hello")), MimeType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	_, err = decodeAttachment(Attachment{Data: "%%%", MimeType: "image/png"})
	assert.Error(t, err)
}

func TestNew_Providers(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{Provider: "gemini"})
	assert.Error(t, err, "gemini requires an API key")

	_, err = New(ctx, Config{Provider: "claude"})
	assert.Error(t, err, "claude requires an API key")

	g, err := New(ctx, Config{Provider: "OpenAI", BaseURL: "http://localhost:1234/v1"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGateway{}, g)

	g, err = New(ctx, Config{Provider: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeGateway{}, g)

	_, err = New(ctx, Config{Provider: "ollama"})
	assert.Error(t, err)
}

type recordedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAIServer(t *testing.T, reply string, got *[]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*got = body
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGateway_ChatRespond(t *testing.T) {
	var body []byte
	srv := newOpenAIServer(t, "Bonjour! Comment puis-je vous aider?", &body)

	g, err := NewOpenAIGateway(Config{BaseURL: srv.URL + "/v1", Model: "test-model"})
	require.NoError(t, err)

	prior := []Message{
		{Role: RoleUser, Text: "Salut"},
		{Role: RoleModel, Text: "Salut!"},
	}
	reply, err := g.ChatRespond(context.Background(), prior, Message{Role: RoleUser, Text: "Bonjour"}, locale.French)
	require.NoError(t, err)
	assert.Equal(t, "Bonjour! Comment puis-je vous aider?", reply)

	var req recordedRequest
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, "test-model", req.Model)
	require.Len(t, req.Messages, 4)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, systemInstruction(locale.French, taskChat), req.Messages[0].Content)
	assert.Equal(t, "assistant", req.Messages[2].Role)
	assert.Equal(t, "Bonjour", req.Messages[3].Content)
}

func TestOpenAIGateway_AnalyzeSendsImageAsDataURL(t *testing.T) {
	var body []byte
	srv := newOpenAIServer(t, "Il s'agit d'un contrat.", &body)

	g, err := NewOpenAIGateway(Config{BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	att := Attachment{Data: base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff}), MimeType: "image/jpeg"}
	reply, err := g.AnalyzeDocument(context.Background(), att, "De quoi s'agit-il ?", locale.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "Il s'agit d'un contrat.", reply)

	assert.Contains(t, string(body), "data:image/jpeg;base64,"+att.Data)
	assert.Contains(t, string(body), "image_url")
}

func TestOpenAIGateway_EmptyReply(t *testing.T) {
	var body []byte
	srv := newOpenAIServer(t, "", &body)

	g, err := NewOpenAIGateway(Config{BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = g.GenerateDocument(context.Background(), "Procuration spéciale", map[string]string{"principal": "A"}, locale.French)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, string(body), "principal: A")
}

func TestConvertClaudeMessage_Roles(t *testing.T) {
	m, err := convertClaudeMessage(Message{Role: RoleModel, Text: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "assistant", string(m.Role))

	m, err = convertClaudeMessage(Message{
		Role:        RoleUser,
		Text:        "Résumez",
		Attachments: []Attachment{{Data: base64.StdEncoding.EncodeToString([]byte("%PDF")), MimeType: "application/pdf"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "user", string(m.Role))
	require.Len(t, m.Content, 2)
	assert.NotNil(t, m.Content[0].OfDocument)
	assert.NotNil(t, m.Content[1].OfText)
}

type cannedGateway struct{ reply string }

func (g cannedGateway) ChatRespond(context.Context, []Message, Message, locale.Locale) (string, error) {
	return g.reply, nil
}

func (g cannedGateway) AnalyzeDocument(context.Context, Attachment, string, locale.Locale) (string, error) {
	return g.reply, nil
}

func (g cannedGateway) GenerateDocument(context.Context, string, map[string]string, locale.Locale) (string, error) {
	return g.reply, nil
}

func TestSwitch(t *testing.T) {
	ctx := context.Background()
	s := NewSwitch(nil)
	assert.False(t, s.Configured())
	_, err := s.ChatRespond(ctx, nil, Message{Role: RoleUser, Text: "Salut"}, locale.French)
	assert.ErrorIs(t, err, ErrNotConfigured)

	s.Set(cannedGateway{reply: "première"})
	got, err := s.GenerateDocument(ctx, "Contrat", nil, locale.French)
	require.NoError(t, err)
	assert.Equal(t, "première", got)

	s.Set(cannedGateway{reply: "seconde"})
	got, err = s.AnalyzeDocument(ctx, Attachment{}, "?", locale.Arabic)
	require.NoError(t, err)
	assert.Equal(t, "seconde", got)
	assert.True(t, s.Configured())
}

func TestConvertGeminiMessage_RolesAndParts(t *testing.T) {
	g := &GeminiGateway{}

	c, err := g.convertMessage(Message{Role: RoleModel, Text: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "model", c.Role)
	require.Len(t, c.Parts, 1)
	assert.Equal(t, "ok", c.Parts[0].Text)

	jpeg := []byte{0xff, 0xd8, 0xff}
	c, err = g.convertMessage(Message{
		Role:        RoleUser,
		Text:        "ما هذا؟",
		Attachments: []Attachment{{Data: base64.StdEncoding.EncodeToString(jpeg), MimeType: "image/jpeg"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "user", c.Role)
	require.Len(t, c.Parts, 2)
	assert.Equal(t, "ما هذا؟", c.Parts[0].Text)
	require.NotNil(t, c.Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", c.Parts[1].InlineData.MIMEType)
	assert.Equal(t, jpeg, c.Parts[1].InlineData.Data)

	// an attachment-only message carries no text part
	c, err = g.convertMessage(Message{
		Role:        RoleUser,
		Attachments: []Attachment{{Data: base64.StdEncoding.EncodeToString([]byte("%PDF")), MimeType: "application/pdf"}},
	})
	require.NoError(t, err)
	require.Len(t, c.Parts, 1)
	assert.Equal(t, "application/pdf", c.Parts[0].InlineData.MIMEType)

	_, err = g.convertMessage(Message{Role: RoleUser, Attachments: []Attachment{{Data: "%%%", MimeType: "image/png"}}})
	assert.Error(t, err)
}
