package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	// GeminiBaseURL is Google's OpenAI-compatible endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	defaultOpenAIModel = "o3-2025-04-16"
	defaultGeminiModel = "gemini-3-flash-preview"
	defaultMaxTokens   = 8192
)

// Options configures a Client. BaseURL overrides the provider default.
type Options struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client
}

// Client generates structured output through any OpenAI-compatible chat
// completions endpoint.
type Client struct {
	*openai.Client
	Provider  string
	Model     string
	MaxTokens int
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	provider := opts.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}
	if provider == ProviderGemini {
		cfg.BaseURL = strings.TrimSuffix(GeminiBaseURL, "/")
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		Client:    openai.NewClientWithConfig(cfg),
		Provider:  provider,
		Model:     opts.Model,
		MaxTokens: maxTokens,
	}
}

// DefaultModel is used when neither the request nor the client names one.
func (c *Client) DefaultModel() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderGemini {
		return defaultGeminiModel
	}
	return defaultOpenAIModel
}

// Generate sends one chat completion constrained by req.Schema and returns
// the first choice's content. An empty string means the service answered
// without content.
func (c *Client) Generate(ctx context.Context, req ai.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.DefaultModel()
	}
	creq := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
				Strict: true,
			},
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		creq.MaxCompletionTokens = c.MaxTokens
	} else {
		creq.MaxTokens = c.MaxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", c.classify(model, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func isReasoningModel(model string) bool {
	for _, p := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

func (c *Client) classify(model string, err error) error {
	e := &ai.Error{Kind: ai.KindTransport, Provider: c.Provider, Model: model, Cause: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		e.Status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		e.Status = reqErr.HTTPStatusCode
	}
	switch e.Status {
	case http.StatusTooManyRequests:
		e.Detail = "quota exceeded"
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Detail = "credential rejected"
	}
	return e
}
