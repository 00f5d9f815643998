package azure

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/infra/ai/prompt"
)

const Provider = "azure"

// Client generates assessments through an Azure OpenAI deployment. The
// deployment's JSON mode is used with the schema carried in the system
// instruction.
type Client struct {
	client       *azopenai.Client
	deploymentID string
	maxTokens    int32
}

// NewClient creates a client bound to one deployment. The deployment is
// used for every call unless the request names another.
func NewClient(endpoint, apiKey, deploymentID string, maxTokens int) (*Client, error) {
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &Client{
		client:       client,
		deploymentID: deploymentID,
		maxTokens:    tokenLimit(maxTokens),
	}, nil
}

// tokenLimit clamps n to the int32 range the SDK takes. Zero means no cap.
func tokenLimit(n int) int32 {
	switch {
	case n <= 0:
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	}
	return int32(n)
}

func (c *Client) Generate(ctx context.Context, req ai.Request) (string, error) {
	opts := chatOptions(c.deployment(req), c.maxTokens, req)
	resp, err := c.client.GetChatCompletions(ctx, opts, nil)
	if err != nil {
		return "", classify(c.deployment(req), err)
	}
	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, nil
	}
	return "", nil
}

func (c *Client) deployment(req ai.Request) string {
	if req.Model != "" {
		return req.Model
	}
	return c.deploymentID
}

func chatOptions(deployment string, maxTokens int32, req ai.Request) azopenai.ChatCompletionsOptions {
	opts := azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(deployment),
		ResponseFormat: &azopenai.ChatCompletionsJSONResponseFormat{},
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(prompt.WithSchema(req.System, req.Schema)),
			},
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(req.User),
			},
		},
	}
	if maxTokens > 0 {
		opts.MaxTokens = to.Ptr(maxTokens)
	}
	return opts
}

func classify(deployment string, err error) error {
	e := &ai.Error{Kind: ai.KindTransport, Provider: Provider, Model: deployment, Cause: err}
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		e.Status = respErr.StatusCode
		e.Detail = respErr.ErrorCode
		if respErr.StatusCode == http.StatusTooManyRequests {
			e.Detail = "quota exceeded"
		}
	}
	return e
}
