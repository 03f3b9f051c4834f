package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/pkg/apperror"
	"github.com/wanderly/concierge/pkg/ratelimit"
)

const apologyMessage = "I'm sorry, I couldn't look that up right now. Please try again in a moment."

// Router dispatches a classified message to its intent handler and guarantees
// a response object for any text input. Only validation errors leave
// RouteMessage; collaborator failures, panics and unknown intents all degrade
// into an apology with confidence 0.0.
type Router struct {
	classifier *Classifier
	handlers   map[domain.Intent]domain.Handler
}

// NewRouter builds the dispatch table. The general handler is mandatory;
// intents without a registered handler fall back to it, so routing has no
// dead-end state.
func NewRouter(classifier *Classifier, handlers map[domain.Intent]domain.Handler) (*Router, error) {
	if handlers[domain.IntentGeneral] == nil {
		return nil, fmt.Errorf("router requires a handler for the %q intent", domain.IntentGeneral)
	}
	table := make(map[domain.Intent]domain.Handler, len(handlers))
	for intent, h := range handlers {
		table[intent] = h
	}
	return &Router{classifier: classifier, handlers: table}, nil
}

// RouteMessage classifies the message, invokes the handler and returns its
// response. The returned error is non-nil only for validation failures
// (apperror.ValidationError); even then the response carries a usable message.
func (r *Router) RouteMessage(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
	_, resp, err := r.Route(ctx, message, conv, history, profile)
	return resp, err
}

// Route is RouteMessage plus the classified intent, for callers that persist
// the turn.
func (r *Router) Route(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Intent, domain.Response, error) {
	if conv == nil {
		conv = &domain.ConversationContext{}
	}

	intent := r.classifier.Classify(ctx, message)

	handler := r.handlers[intent]
	if handler == nil {
		logrus.Warnf("[ROUTER] No handler for intent %q, using general", intent)
		handler = r.handlers[domain.IntentGeneral]
	}

	resp, err := invokeSafely(ctx, handler, message, conv, history, profile)
	if err != nil {
		if apperror.IsValidation(err) {
			// The one category allowed past the handler boundary.
			return intent, domain.Response{
				Message:         err.Error(),
				ConfidenceScore: 0.0,
			}, err
		}
		logrus.WithError(err).Warnf("[ROUTER] Handler for %q failed, degrading", intent)
		return intent, degradedResponse(), nil
	}

	return intent, normalize(resp), nil
}

// invokeSafely shields the router from handler panics as well as returned
// errors; a panic becomes an ordinary handler failure.
func invokeSafely(ctx context.Context, h domain.Handler, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (resp domain.Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return h(ctx, message, conv, history, profile)
}

func degradedResponse() domain.Response {
	return domain.Response{
		Message:         apologyMessage,
		QuickReplies:    []string{"Try again", "Something else"},
		ConfidenceScore: 0.0,
	}
}

// normalize enforces the response invariants: non-empty message, confidence
// within [0, 1].
func normalize(resp domain.Response) domain.Response {
	if resp.Message == "" {
		return degradedResponse()
	}
	if resp.ConfidenceScore < 0 {
		resp.ConfidenceScore = 0
	}
	if resp.ConfidenceScore > 1 {
		resp.ConfidenceScore = 1
	}
	return resp
}

// WithRateLimit wraps a handler so each invocation first claims a slot in the
// caller's sliding window for the given operation. A rejected call degrades
// without touching downstream collaborators.
func WithRateLimit(limiter *ratelimit.Limiter, operation string, next domain.Handler) domain.Handler {
	return func(ctx context.Context, message string, conv *domain.ConversationContext, history []domain.ChatTurn, profile domain.UserProfile) (domain.Response, error) {
		identity := "anonymous"
		if conv != nil && conv.UserID != "" {
			identity = conv.UserID
		}
		if d := limiter.Allow(operation, identity); !d.Allowed {
			logrus.Debugf("[ROUTER] Rate limited %s for %s", operation, identity)
			return domain.Response{
				Message:         "You're sending requests a little too fast. Give me a few seconds and ask again.",
				QuickReplies:    []string{"Try again"},
				ConfidenceScore: 0.2,
			}, nil
		}
		return next(ctx, message, conv, history, profile)
	}
}
