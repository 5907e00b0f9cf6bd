package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/jsamuelsen/inspirehub/internal/adapters/clients"
	"github.com/jsamuelsen/inspirehub/internal/domain"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
)

const (
	// GeminiServiceName names the downstream in errors and logs.
	GeminiServiceName = "gemini"

	// GeminiAPIKeyHeader carries the API key on every request.
	GeminiAPIKeyHeader = "x-goog-api-key"

	operationGenerate = "generate motivation"

	promptTemplate = "Generate a powerful, high-energy motivational short speech (about 150 words) " +
		"based on this topic: %s. Focus on overcoming obstacles and the power of the human spirit. " +
		"Also provide a short punchy title."
)

// GeminiAuth returns a clients.Config AuthFunc that sets the API key header.
func GeminiAuth(apiKey string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(GeminiAPIKeyHeader, apiKey)
	}
}

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	// Client must have its BaseURL set to the API root, e.g.
	// https://generativelanguage.googleapis.com/v1beta, and should
	// authenticate with GeminiAuth.
	Client *clients.Client

	Model  string
	Logger *slog.Logger
}

// GeminiClient implements ports.MotivationGenerator on the Gemini
// generateContent endpoint, asking for structured JSON output.
type GeminiClient struct {
	BaseAdapter

	model  string
	path   string
	logger *slog.Logger
}

// NewGeminiClient panics without a client or model.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Client == nil {
		panic("GeminiClient: Client is required")
	}

	if cfg.Model == "" {
		panic("GeminiClient: Model is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GeminiClient{
		BaseAdapter: NewBaseAdapter(cfg.Client, GeminiServiceName),
		model:       cfg.Model,
		path:        "/models/" + url.PathEscape(cfg.Model) + ":generateContent",
		logger:      logger.With(slog.String("component", "acl.GeminiClient")),
	}
}

// Wire types for generateContent. They never leave this file.
type (
	generateRequest struct {
		Contents         []content        `json:"contents"`
		GenerationConfig generationConfig `json:"generationConfig"`
	}

	content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	part struct {
		Text string `json:"text"`
	}

	generationConfig struct {
		ResponseMIMEType string  `json:"responseMimeType"`
		ResponseSchema   *schema `json:"responseSchema"`
	}

	schema struct {
		Type        string             `json:"type"`
		Description string             `json:"description,omitempty"`
		Properties  map[string]*schema `json:"properties,omitempty"`
		Required    []string           `json:"required,omitempty"`
	}

	generateResponse struct {
		Candidates     []candidate     `json:"candidates"`
		PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
	}

	candidate struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	}

	promptFeedback struct {
		BlockReason string `json:"blockReason"`
	}

	speechPayload struct {
		Speech string `json:"speech"`
		Title  string `json:"title"`
	}
)

var speechSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"speech": {Type: "STRING", Description: "The motivational speech content."},
		"title":  {Type: "STRING", Description: "A punchy, inspirational title for the speech."},
	},
	Required: []string{"speech", "title"},
}

func newGenerateRequest(topic string) generateRequest {
	return generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf(promptTemplate, topic)}},
		}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   speechSchema,
		},
	}
}

// GenerateMotivation implements ports.MotivationGenerator.
func (g *GeminiClient) GenerateMotivation(ctx context.Context, topic string) (domain.Motivation, error) {
	logger := logging.FromContextOr(ctx, g.logger)
	logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("model", g.model))

	body, err := g.PostJSON(ctx, g.path, newGenerateRequest(topic), operationGenerate)
	if err != nil {
		return domain.Motivation{}, err
	}

	resp, err := DecodeResponse[generateResponse](body)
	if err != nil {
		return domain.Motivation{}, g.unavailable(err.Error())
	}

	m, err := g.translate(resp)
	if err != nil {
		return domain.Motivation{}, err
	}

	logger.DebugContext(ctx, "speech generated",
		slog.String("model", g.model),
		slog.Int("speech_length", len(m.Speech)),
	)

	return m, nil
}

func (g *GeminiClient) translate(resp *generateResponse) (domain.Motivation, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return domain.Motivation{}, g.unavailable("prompt blocked: " + resp.PromptFeedback.BlockReason)
		}

		return domain.Motivation{}, g.unavailable("empty response from AI")
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return domain.Motivation{}, g.unavailable("empty response from AI")
	}

	var payload speechPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return domain.Motivation{}, g.unavailable("malformed speech payload: " + err.Error())
	}

	m := domain.Motivation{
		Title:  strings.TrimSpace(payload.Title),
		Speech: strings.TrimSpace(payload.Speech),
	}

	switch {
	case m.Title == "":
		return domain.Motivation{}, g.unavailable("speech payload is missing a title")
	case m.Speech == "":
		return domain.Motivation{}, g.unavailable("speech payload is missing the speech")
	}

	return m, nil
}

func (g *GeminiClient) unavailable(reason string) error {
	return domain.NewUnavailableError(g.ServiceName(), reason)
}
