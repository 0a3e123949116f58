package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// Name 回應來源名稱
const Name = "OpenAI"

// Client 以 go-openai 實作的生成後端
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient 創建 OpenAI 客戶端
func NewClient(cfg *config.Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.OpenAI.Model,
		maxTokens: cfg.OpenAI.MaxTokens,
		timeout:   cfg.AI.Timeout,
	}
}

// Name 實作 provider.Generator
func (c *Client) Name() string {
	return Name
}

// Generate 以單一使用者訊息呼叫 chat completion
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := provider.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", c.handleAPIError(ctx, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", common.Wrap(common.ErrAIServiceError, fmt.Errorf("empty content in OpenAI response"))
	}

	common.LogDebug("OpenAI response received",
		zap.String("model", c.model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) handleAPIError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return common.Wrap(common.ErrGatewayTimeout, ctx.Err())
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		common.LogError("OpenAI returned error status",
			zap.Int("status_code", apiErr.HTTPStatusCode),
			zap.String("model", c.model),
			zap.String("error", apiErr.Message),
		)
		return common.Wrap(common.ErrAIServiceError, fmt.Errorf("OpenAI API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message))
	}
	return common.Wrap(common.ErrAIServiceError, err)
}
