package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/wanderly/concierge/concierge/domain"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiCompleter is the adapter for the Google Gemini API.
type GeminiCompleter struct {
	apiKey string
	model  string
}

func NewGeminiCompleter(apiKey, model string) *GeminiCompleter {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCompleter{apiKey: apiKey, model: model}
}

// Complete implements domain.TextCompleter.
func (p *GeminiCompleter) Complete(ctx context.Context, prompt string, opts domain.CompletionOptions) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini completer has no API key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature > 0 {
		temp := float32(opts.Temperature)
		cfg.Temperature = &temp
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	contents := []*genai.Content{
		{Role: genai.RoleUser, Parts: []*genai.Part{{Text: prompt}}},
	}

	result, err := p.generateWithRetry(ctx, client, contents, cfg)
	if err != nil {
		return "", err
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	if result.UsageMetadata != nil {
		logrus.WithFields(logrus.Fields{
			"model":         p.model,
			"input_tokens":  result.UsageMetadata.PromptTokenCount,
			"output_tokens": result.UsageMetadata.CandidatesTokenCount,
		}).Debug("[GEMINI] Completion done")
	}

	return text.String(), nil
}

// generateWithRetry retries only transient 503s, with exponential backoff.
func (p *GeminiCompleter) generateWithRetry(ctx context.Context, client *genai.Client, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	for i := 0; i < 3; i++ {
		result, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
		if err == nil {
			return result, nil
		}
		if strings.Contains(err.Error(), "503") {
			select {
			case <-time.After(time.Duration(1<<uint(i)) * time.Second):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return nil, err
	}
	return nil, fmt.Errorf("max retries exceeded")
}
