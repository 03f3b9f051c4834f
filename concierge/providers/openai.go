package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAICompleter is the adapter for the OpenAI API.
type OpenAICompleter struct {
	apiKey string
	model  string
}

func NewOpenAICompleter(apiKey, model string) *OpenAICompleter {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompleter{apiKey: apiKey, model: model}
}

// Complete implements domain.TextCompleter. One attempt, no retries.
func (p *OpenAICompleter) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("openai completer has no API key")
	}

	client := openai.NewClient(
		option.WithAPIKey(p.apiKey),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	logrus.WithFields(logrus.Fields{
		"model":         p.model,
		"input_tokens":  completion.Usage.PromptTokens,
		"output_tokens": completion.Usage.CompletionTokens,
	}).Debug("[OPENAI] Completion done")

	return completion.Choices[0].Message.Content, nil
}
