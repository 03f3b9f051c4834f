package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/wanderly/concierge/concierge/domain"
)

// HandleStyle serves etiquette and dress-norm questions from the cultural
// insights cache (long TTL; this data moves slowly).
func (h *Handlers) HandleStyle(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	place, ok := resolveDestination(message, conv)
	if !ok {
		return domain.Response{
			Message:         "Which destination would you like etiquette tips for?",
			QuickReplies:    []string{"Tokyo", "Dubai", "Rome"},
			ConfidenceScore: 0.6,
		}, nil
	}

	guide, err := h.guideFor(ctx, place)
	if err != nil {
		return domain.Response{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A few things to know in %s:\n", guide.Destination)
	for _, tip := range guide.Etiquette {
		fmt.Fprintf(&b, "• %s\n", tip)
	}
	if len(guide.DressNorms) > 0 {
		b.WriteString("\nDress norms:\n")
		for _, norm := range guide.DressNorms {
			fmt.Fprintf(&b, "• %s\n", norm)
		}
	}
	if guide.Tipping != "" {
		fmt.Fprintf(&b, "\nTipping: %s", guide.Tipping)
	}

	return domain.Response{
		Message:         strings.TrimSpace(b.String()),
		QuickReplies:    []string{"What should I pack?", "Weather there"},
		ConfidenceScore: 0.85,
	}, nil
}

func (h *Handlers) guideFor(ctx context.Context, place string) (*domain.CultureGuide, error) {
	key := strings.ToLower(place)

	var cached domain.CultureGuide
	if h.CultureCache != nil && h.CultureCache.GetInto(ctx, key, &cached) {
		return &cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout())
	defer cancel()

	guide, err := h.Culture.FetchGuide(callCtx, place)
	if err != nil {
		return nil, fmt.Errorf("culture provider: %w", err)
	}

	if h.CultureCache != nil {
		h.CultureCache.SetCache(ctx, key, guide)
	}
	return guide, nil
}

// HandleDestination acknowledges a newly mentioned destination, records it
// (and any travel dates) in the conversation context and offers next steps.
func (h *Handlers) HandleDestination(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	place, ok := ExtractDestination(message)
	if !ok {
		if conv.Destination == "" {
			return domain.Response{
				Message:         "Sounds like a trip is coming up! Where are you headed?",
				QuickReplies:    []string{"I'm going to Paris", "Trip to New York"},
				ConfidenceScore: 0.5,
			}, nil
		}
		place = conv.Destination
	}
	conv.Destination = place

	msg := fmt.Sprintf("%s, great choice!", place)
	if dates, ok := ExtractTravelDates(message); ok {
		conv.TravelDates = dates
		msg += fmt.Sprintf(" I've noted your dates, %s to %s.", dates.Start, dates.End)
	}
	msg += " I can check the weather, suggest what to pack, or share local etiquette."

	return domain.Response{
		Message: msg,
		QuickReplies: []string{
			fmt.Sprintf("Weather in %s", place),
			"What should I pack?",
			"Local etiquette",
		},
		ConfidenceScore: 0.85,
	}, nil
}
