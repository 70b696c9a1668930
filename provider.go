package mainframequiz

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Provider turns a prompt payload into raw candidate question text. The
// pipeline treats its output as untrusted and runs full validation on it.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIProvider generates questions through the OpenAI chat completion API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for the given credential. An empty
// API key is a configuration error, reported before any call is made.
func NewOpenAIProvider(apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrProviderUnavailable
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Generate sends the prompt and returns the raw response text. Transport,
// auth, and quota failures surface as-is for the pipeline to wrap.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPersona,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.8,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from %s", p.model)
	}

	return resp.Choices[0].Message.Content, nil
}
