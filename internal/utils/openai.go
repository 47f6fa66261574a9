package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type OpenaiClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseUrl, model string) (*OpenaiClient, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is empty")
	}
	config := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		config.BaseURL = baseUrl
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenaiClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (c *OpenaiClient) Complete(ctx context.Context, systemPrompt, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: text,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI API returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
