package domain

import (
	"context"
	"strings"
	"time"
)

// Intent is the closed-set label describing what a user message asks for.
type Intent string

const (
	IntentCurrency    Intent = "currency"
	IntentWeather     Intent = "weather"
	IntentWardrobe    Intent = "wardrobe"
	IntentStyle       Intent = "style"
	IntentDestination Intent = "destination"
	IntentLogistics   Intent = "logistics"
	// IntentGeneral is the default and fallback; it is never absent from the
	// dispatch table.
	IntentGeneral Intent = "general"
)

// AllIntents returns the closed intent set in dispatch order.
func AllIntents() []Intent {
	return []Intent{
		IntentCurrency,
		IntentWeather,
		IntentWardrobe,
		IntentStyle,
		IntentDestination,
		IntentLogistics,
		IntentGeneral,
	}
}

// ParseIntent matches raw text against the closed intent set, case-insensitively.
func ParseIntent(raw string) (Intent, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, `"'.`)
	for _, it := range AllIntents() {
		if cleaned == string(it) {
			return it, true
		}
	}
	return IntentGeneral, false
}

// TravelDates is an ordered pair of ISO-8601 calendar dates as they appeared
// in the user's message. Start <= End is NOT validated here; extraction is a
// pass-through, not a business-rule validator.
type TravelDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ConversationContext travels by reference through the routing pipeline. The
// classifier treats it as read-only; handlers may write inferred context back
// (destination extraction, travel dates).
type ConversationContext struct {
	UserID      string       `json:"user_id"`
	Destination string       `json:"destination,omitempty"`
	TravelDates *TravelDates `json:"travel_dates,omitempty"`
	TripPurpose string       `json:"trip_purpose,omitempty"`
	StylePrefs  []string     `json:"style_prefs,omitempty"`
}

// UserProfile is the caller's stored profile, read-only to handlers.
type UserProfile struct {
	Name         string `json:"name,omitempty"`
	HomeCurrency string `json:"home_currency,omitempty"`
	Language     string `json:"language,omitempty"`
}

// ChatTurn is one message in a conversation history.
type ChatTurn struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Intent    Intent    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Response is what every intent handler returns. Message is never empty;
// ConfidenceScore 0.0 is the documented signal for "could not help, fell back
// to apology".
type Response struct {
	Message         string   `json:"message"`
	QuickReplies    []string `json:"quick_replies"`
	Suggestions     []string `json:"suggestions"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// Handler serves one intent. Validation failures come back as typed errors;
// any other returned error means a collaborator failed and the caller is
// expected to degrade the response rather than surface the error.
type Handler func(ctx context.Context, message string, conv *ConversationContext, history []ChatTurn, profile UserProfile) (Response, error)

// CompletionOptions tunes a single text-completion call.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// TextCompleter is the LLM collaborator used by the classifier fallback and by
// NLP-parsing handlers. Call sites make a single Complete call and fall back
// on error; an implementation may retry transient transport failures
// internally, within the caller's context deadline.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// ConversationStore persists conversation turns.
type ConversationStore interface {
	AppendTurn(ctx context.Context, conversationID string, turn ChatTurn) error
	RecentTurns(ctx context.Context, conversationID string, limit int) ([]ChatTurn, error)
}
