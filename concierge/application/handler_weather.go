package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/wanderly/concierge/concierge/domain"
)

// HandleWeather answers weather questions for the resolved destination,
// cache-first with the short weather TTL.
func (h *Handlers) HandleWeather(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	city, ok := resolveDestination(message, conv)
	if !ok {
		return domain.Response{
			Message:         "Which city should I check the weather for?",
			QuickReplies:    []string{"Paris", "Tokyo", "New York"},
			ConfidenceScore: 0.6,
		}, nil
	}

	report, err := h.weatherFor(ctx, city)
	if err != nil {
		return domain.Response{}, err
	}

	msg := fmt.Sprintf("Current weather in %s: %s, %.1f°C (feels like %.1f°C), humidity %.0f%%.",
		report.City, report.Description, report.Temperature, report.FeelsLike, report.Humidity)

	return domain.Response{
		Message:         msg,
		QuickReplies:    []string{"What should I pack?", "Local etiquette"},
		Suggestions:     []string{fmt.Sprintf("Ask me what to wear in %s", report.City)},
		ConfidenceScore: 0.9,
	}, nil
}

func (h *Handlers) weatherFor(ctx context.Context, city string) (*domain.WeatherReport, error) {
	key := strings.ToLower(city)

	var cached domain.WeatherReport
	if h.WeatherCache != nil && h.WeatherCache.GetInto(ctx, key, &cached) {
		return &cached, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, h.callTimeout())
	defer cancel()

	report, err := h.Weather.FetchWeather(callCtx, city)
	if err != nil {
		return nil, fmt.Errorf("weather provider: %w", err)
	}

	if h.WeatherCache != nil {
		h.WeatherCache.SetCache(ctx, key, report)
	}
	return report, nil
}

// HandleWardrobe composes packing advice. It consults the weather cache for
// the destination (fetching on miss, same as the weather handler) and maps
// temperature bands to a packing list.
func (h *Handlers) HandleWardrobe(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	if dates, ok := ExtractTravelDates(message); ok {
		conv.TravelDates = dates
	}

	city, ok := resolveDestination(message, conv)
	if !ok {
		return domain.Response{
			Message:         "Happy to help you pack! Where are you going?",
			QuickReplies:    []string{"I'm going to Paris", "Trip to Tokyo"},
			ConfidenceScore: 0.6,
		}, nil
	}

	report, err := h.weatherFor(ctx, city)
	if err != nil {
		return domain.Response{}, err
	}

	var items []string
	switch {
	case report.Temperature < 5:
		items = []string{"a warm coat", "thermal layers", "gloves and a hat", "waterproof boots"}
	case report.Temperature < 15:
		items = []string{"a jacket", "layers you can add or remove", "closed shoes"}
	case report.Temperature < 25:
		items = []string{"light layers", "a light jacket for evenings", "comfortable walking shoes"}
	default:
		items = []string{"breathable clothing", "sun protection", "sandals or light shoes"}
	}
	if strings.Contains(strings.ToLower(report.Description), "rain") {
		items = append(items, "a compact umbrella or rain jacket")
	}

	msg := fmt.Sprintf("It's around %.0f°C in %s (%s), so pack %s.",
		report.Temperature, report.City, report.Description, strings.Join(items, ", "))
	if conv.TravelDates != nil {
		msg += fmt.Sprintf(" That's for your trip from %s to %s, check again closer to departure.",
			conv.TravelDates.Start, conv.TravelDates.End)
	}

	return domain.Response{
		Message:         msg,
		QuickReplies:    []string{"Local dress norms", "Current weather"},
		ConfidenceScore: 0.85,
	}, nil
}
