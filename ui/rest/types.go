package rest

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wanderly/concierge/concierge/domain"
)

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	UserID         string             `json:"user_id"`
	ConversationID string             `json:"conversation_id"`
	Message        string             `json:"message"`
	Context        *ChatContext       `json:"context,omitempty"`
	Profile        domain.UserProfile `json:"profile"`
}

// ChatContext is the client-held slice of conversation state echoed back on
// every request. The server merges handler-side inferences into it.
type ChatContext struct {
	Destination string              `json:"destination,omitempty"`
	TravelDates *domain.TravelDates `json:"travel_dates,omitempty"`
	TripPurpose string              `json:"trip_purpose,omitempty"`
	StylePrefs  []string            `json:"style_prefs,omitempty"`
}

func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Message, validation.Required, validation.Length(1, 4000)),
		validation.Field(&r.ConversationID, validation.Length(0, 128)),
	)
}

// ChatResponse is the POST /api/chat result payload.
type ChatResponse struct {
	Message         string       `json:"message"`
	QuickReplies    []string     `json:"quick_replies,omitempty"`
	Suggestions     []string     `json:"suggestions,omitempty"`
	ConfidenceScore float64      `json:"confidence_score"`
	Context         *ChatContext `json:"context,omitempty"`
}
