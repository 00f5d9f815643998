package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast/blasttest"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/schema"
)

type capturedRequest struct {
	Model          string `json:"model"`
	MaxTokens      int    `json:"max_tokens"`
	MaxCompletion  int    `json:"max_completion_tokens"`
	ResponseFormat struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string          `json:"name"`
			Strict bool            `json:"strict"`
			Schema json.RawMessage `json:"schema"`
		} `json:"json_schema"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newServer(t *testing.T, status int, body string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func request() ai.Request {
	return ai.Request{
		System:     "system instruction",
		User:       "user prompt",
		SchemaName: schema.Name,
		Schema:     schema.JSON(),
	}
}

func TestGenerateSendsStrictSchema(t *testing.T) {
	var got capturedRequest
	srv := newServer(t, http.StatusOK, completion(blasttest.JSON()), &got)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "gpt-4o"})

	out, err := c.Generate(context.Background(), request())
	require.NoError(t, err)
	assert.JSONEq(t, blasttest.JSON(), out)

	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, defaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "json_schema", got.ResponseFormat.Type)
	assert.Equal(t, schema.Name, got.ResponseFormat.JSONSchema.Name)
	assert.True(t, got.ResponseFormat.JSONSchema.Strict)
	assert.JSONEq(t, string(schema.JSON()), string(got.ResponseFormat.JSONSchema.Schema))
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system instruction", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "user prompt", got.Messages[1].Content)
}

func TestGenerateReasoningModelUsesCompletionTokens(t *testing.T) {
	var got capturedRequest
	srv := newServer(t, http.StatusOK, completion("{}"), &got)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", MaxTokens: 1000})

	_, err := c.Generate(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	assert.Equal(t, 1000, got.MaxCompletion)
	assert.Zero(t, got.MaxTokens)
}

func TestGenerateNoChoices(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`, nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "gpt-4o"})

	out, err := c.Generate(context.Background(), request())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerateClassifiesAPIError(t *testing.T) {
	body := `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`
	srv := newServer(t, http.StatusUnauthorized, body, nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "gpt-4o"})

	_, err := c.Generate(context.Background(), request())
	require.ErrorIs(t, err, ai.ErrTransport)

	var e *ai.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusUnauthorized, e.Status)
	assert.Equal(t, ProviderOpenAI, e.Provider)
	assert.Equal(t, "gpt-4o", e.Model)
	assert.Equal(t, "credential rejected", e.Detail)
}

func TestGenerateClassifiesQuota(t *testing.T) {
	body := `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`
	srv := newServer(t, http.StatusTooManyRequests, body, nil)
	c := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL + "/v1", Model: "gpt-4o"})

	_, err := c.Generate(context.Background(), request())
	var e *ai.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ai.KindTransport, e.Kind)
	assert.Equal(t, "quota exceeded", e.Detail)
}

func TestGeminiDefaults(t *testing.T) {
	c := NewClient(Options{Provider: ProviderGemini, APIKey: "k"})
	assert.Equal(t, defaultGeminiModel, c.DefaultModel())
	assert.Equal(t, ProviderGemini, c.Provider)
}
