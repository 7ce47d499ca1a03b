package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Completer produces one assistant reply for a single caller utterance.
// Each call is stateless: the only conversation context is the system
// instruction plus the one utterance.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAI is a Completer backed by the OpenAI chat-completions endpoint.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAI(apiKey, model string, temperature float64) *OpenAI {
	return newOpenAI(openai.NewClient(apiKey), model, temperature)
}

func newOpenAI(client *openai.Client, model string, temperature float64) *OpenAI {
	return &OpenAI{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}
}

func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
