package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/cache"
	"github.com/wanderly/concierge/concierge/domain"
)

// DefaultCallTimeout bounds every outbound collaborator call made from a
// handler. A timeout is an ordinary handler failure, not a request cancel.
const DefaultCallTimeout = 8 * time.Second

// Handlers owns the per-intent handler implementations and their shared
// dependencies. Each handler independently decides whether to consult its
// cache service before calling the external collaborator.
type Handlers struct {
	WeatherCache  *cache.Service
	CurrencyCache *cache.Service
	CultureCache  *cache.Service

	Weather domain.WeatherProvider
	Rates   domain.RateProvider
	Culture domain.CultureProvider

	Completer domain.TextCompleter

	CallTimeout time.Duration
}

func (h *Handlers) callTimeout() time.Duration {
	if h.CallTimeout > 0 {
		return h.CallTimeout
	}
	return DefaultCallTimeout
}

// DispatchTable maps every intent of the closed set to its handler.
func (h *Handlers) DispatchTable() map[domain.Intent]domain.Handler {
	return map[domain.Intent]domain.Handler{
		domain.IntentCurrency:    h.HandleCurrency,
		domain.IntentWeather:     h.HandleWeather,
		domain.IntentWardrobe:    h.HandleWardrobe,
		domain.IntentStyle:       h.HandleStyle,
		domain.IntentDestination: h.HandleDestination,
		domain.IntentLogistics:   h.HandleLogistics,
		domain.IntentGeneral:     h.HandleGeneral,
	}
}

// resolveDestination prefers context over fresh extraction; an extraction from
// the current message updates the context for later turns.
func resolveDestination(message string, conv *domain.ConversationContext) (string, bool) {
	if place, ok := ExtractDestination(message); ok {
		conv.Destination = place
		return place, true
	}
	if conv.Destination != "" {
		return conv.Destination, true
	}
	return "", false
}

const generalPromptTemplate = `You are a friendly travel concierge. Answer the traveler briefly and helpfully.
Known context: destination=%q dates=%v.
Traveler: %s
Concierge:`

// HandleGeneral is the fallback handler; it must always produce a response,
// so a failed completion degrades to a canned greeting rather than an error.
func (h *Handlers) HandleGeneral(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	quickReplies := []string{"Weather at my destination", "What should I pack?", "Convert currency"}

	if h.Completer != nil && strings.TrimSpace(message) != "" {
		callCtx, cancel := context.WithTimeout(ctx, h.callTimeout())
		defer cancel()

		text, err := h.Completer.Complete(callCtx, fmt.Sprintf(generalPromptTemplate, conv.Destination, conv.TravelDates, message), domain.CompletionOptions{
			Temperature: 0.7,
			MaxTokens:   300,
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return domain.Response{
				Message:         strings.TrimSpace(text),
				QuickReplies:    quickReplies,
				ConfidenceScore: 0.7,
			}, nil
		}
		if err != nil {
			logrus.WithError(err).Debug("[HANDLER] General completion failed, using canned reply")
		}
	}

	greeting := "Hi! I'm your travel concierge. I can check the weather, suggest what to pack, explain local etiquette and convert currencies. Where are you headed?"
	if profile.Name != "" {
		greeting = fmt.Sprintf("Hi %s! ", profile.Name) + greeting[4:]
	}
	return domain.Response{
		Message:         greeting,
		QuickReplies:    quickReplies,
		ConfidenceScore: 0.5,
	}, nil
}

// HandleLogistics covers transport, documents and planning questions. There is
// no dedicated data collaborator; it leans on the completion provider and
// degrades to evergreen advice.
func (h *Handlers) HandleLogistics(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	if h.Completer != nil {
		callCtx, cancel := context.WithTimeout(ctx, h.callTimeout())
		defer cancel()

		prompt := fmt.Sprintf("You are a travel logistics assistant. Destination: %q. Answer concisely with practical steps.\nQuestion: %s", conv.Destination, message)
		text, err := h.Completer.Complete(callCtx, prompt, domain.CompletionOptions{Temperature: 0.4, MaxTokens: 350})
		if err == nil && strings.TrimSpace(text) != "" {
			return domain.Response{
				Message:         strings.TrimSpace(text),
				QuickReplies:    []string{"Visa requirements", "Airport transfer", "Local SIM cards"},
				ConfidenceScore: 0.75,
			}, nil
		}
		if err != nil {
			logrus.WithError(err).Debug("[HANDLER] Logistics completion failed, using canned reply")
		}
	}

	return domain.Response{
		Message: "A few things worth sorting before any trip: check your passport validity (six months past return is the safe rule), confirm visa requirements for your destination, and screenshot your bookings for offline access.",
		QuickReplies:    []string{"Visa requirements", "Airport transfer"},
		ConfidenceScore: 0.5,
	}, nil
}
