package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wanderly/concierge/concierge/domain"
	"github.com/wanderly/concierge/pkg/apperror"
)

const DefaultHistoryLimit = 20

// ChatService is the conversation-level orchestrator: it loads recent history,
// routes the message and persists both sides of the exchange. Persistence is
// best-effort; a store failure never blocks the reply.
type ChatService struct {
	router       *Router
	turns        domain.ConversationStore
	historyLimit int
	now          func() time.Time
}

func NewChatService(router *Router, turns domain.ConversationStore, historyLimit int) *ChatService {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &ChatService{
		router:       router,
		turns:        turns,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (s *ChatService) SetClock(now func() time.Time) {
	s.now = now
}

// Chat handles one user message end to end. The error is non-nil only for
// validation failures, mirroring the router contract.
func (s *ChatService) Chat(ctx context.Context, conversationID, message string, conv *domain.ConversationContext, profile domain.UserProfile) (domain.Response, error) {
	if strings.TrimSpace(message) == "" {
		return domain.Response{}, apperror.ValidationError("message must not be empty")
	}
	if conv == nil {
		conv = &domain.ConversationContext{}
	}

	var history []domain.ChatTurn
	if s.turns != nil && conversationID != "" {
		var err error
		history, err = s.turns.RecentTurns(ctx, conversationID, s.historyLimit)
		if err != nil {
			logrus.WithError(err).Warn("[CHAT] Failed to load history, continuing without it")
			history = nil
		}
	}

	intent, resp, routeErr := s.router.Route(ctx, message, conv, history, profile)

	if s.turns != nil && conversationID != "" {
		now := s.now()
		if err := s.turns.AppendTurn(ctx, conversationID, domain.ChatTurn{
			Role:      "user",
			Text:      message,
			Intent:    intent,
			CreatedAt: now,
		}); err != nil {
			logrus.WithError(err).Warn("[CHAT] Failed to persist user turn")
		}
		if err := s.turns.AppendTurn(ctx, conversationID, domain.ChatTurn{
			Role:      "assistant",
			Text:      resp.Message,
			Intent:    intent,
			CreatedAt: now,
		}); err != nil {
			logrus.WithError(err).Warn("[CHAT] Failed to persist assistant turn")
		}
	}

	return resp, routeErr
}
