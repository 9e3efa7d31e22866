package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/RocketSloth/LabBuddy/internal/domain/ai"
	"github.com/RocketSloth/LabBuddy/internal/infra/ai/prompt"
)

const defaultMaxTokens = 250

type Client struct {
	*openai.Client
	Model     string
	MaxTokens int
}

func NewClient(apiKey, model string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model, MaxTokens: maxTokens}
}

func (c *Client) Analyze(ctx context.Context, in domai.Input) (string, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.Build(in)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = c.MaxTokens
	} else {
		req.MaxTokens = c.MaxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	// the provider is untrusted; absent choices are an error path, not a panic
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", domai.ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
