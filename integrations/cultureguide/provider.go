// Package cultureguide produces cultural-insight guides for a destination.
// There is no public etiquette API worth depending on, so the guide is
// generated through the text-completion collaborator with a strict JSON
// contract. Output that fails to parse is a provider error.
package cultureguide

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wanderly/concierge/concierge/domain"
)

type Provider struct {
	completer domain.TextCompleter
}

func NewProvider(completer domain.TextCompleter) *Provider {
	return &Provider{completer: completer}
}

func (p *Provider) Name() string { return "cultureguide" }

const guidePrompt = `You are a cultural briefing writer for travelers.
Write a short guide for %q. Reply with JSON only, no prose around it:
{"etiquette": ["..."], "dress_norms": ["..."], "tipping": "..."}
Keep each list to 3-5 short, concrete items.`

type guidePayload struct {
	Etiquette  []string `json:"etiquette"`
	DressNorms []string `json:"dress_norms"`
	Tipping    string   `json:"tipping"`
}

// FetchGuide implements domain.CultureProvider.
func (p *Provider) FetchGuide(ctx context.Context, destination string) (*domain.CultureGuide, error) {
	if p.completer == nil {
		return nil, fmt.Errorf("cultureguide provider has no completer")
	}

	raw, err := p.completer.Complete(ctx, fmt.Sprintf(guidePrompt, destination), domain.CompletionOptions{
		Temperature: 0.3,
		MaxTokens:   400,
	})
	if err != nil {
		return nil, err
	}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.Trim(raw, "` \n")

	var payload guidePayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse culture guide: %w", err)
	}
	if len(payload.Etiquette) == 0 {
		return nil, fmt.Errorf("culture guide for %q came back empty", destination)
	}

	return &domain.CultureGuide{
		Destination: destination,
		Etiquette:   payload.Etiquette,
		DressNorms:  payload.DressNorms,
		Tipping:     payload.Tipping,
		FetchedAt:   time.Now(),
	}, nil
}
