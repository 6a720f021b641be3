package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bizpulse/roadmap/internal/domain/assessment"
	"github.com/bizpulse/roadmap/internal/domain/playbooks"
	"github.com/bizpulse/roadmap/internal/infra/ai/prompt"
)

const maxTokens = 2048

// Client implements playbooks.Generator on the OpenAI chat API.
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Generate(ctx context.Context, playbookType string, answers assessment.QuizAnswers, score assessment.BusinessHealthScore) (string, error) {
	model := c.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.SystemPrompt(playbookType)},
			{Role: openai.ChatMessageRoleUser, Content: prompt.UserPrompt(answers, score)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("%w: %v", playbooks.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("%w: %v", playbooks.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", playbooks.ErrGenerationFailed
	}
	return resp.Choices[0].Message.Content, nil
}
