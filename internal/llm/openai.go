package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI is a Backend backed by the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI builds an OpenAI backend. An empty model selects the default.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Name implements Backend.
func (o *OpenAI) Name() string { return "openai" }

// Model implements Backend.
func (o *OpenAI) Model() string { return o.model }

// Generate implements Backend.
func (o *OpenAI) Generate(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
