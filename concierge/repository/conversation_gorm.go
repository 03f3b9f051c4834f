package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wanderly/concierge/concierge/domain"
)

type conversationTurnModel struct {
	ID             string    `gorm:"primaryKey;column:id"`
	ConversationID string    `gorm:"column:conversation_id;not null;index"`
	Role           string    `gorm:"column:role;not null"`
	Text           string    `gorm:"column:text;type:text"`
	Intent         string    `gorm:"column:intent"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index"`
}

func (conversationTurnModel) TableName() string { return "conversation_turns" }

// GormConversationStore persists conversation turns.
type GormConversationStore struct {
	db *gorm.DB
}

func NewGormConversationStore(db *gorm.DB) *GormConversationStore {
	return &GormConversationStore{db: db}
}

func (s *GormConversationStore) Init(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&conversationTurnModel{})
}

func (s *GormConversationStore) AppendTurn(ctx context.Context, conversationID string, turn domain.ChatTurn) error {
	createdAt := turn.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	model := conversationTurnModel{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           turn.Role,
		Text:           turn.Text,
		Intent:         string(turn.Intent),
		CreatedAt:      createdAt,
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

// RecentTurns returns up to limit turns for the conversation, oldest first.
func (s *GormConversationStore) RecentTurns(ctx context.Context, conversationID string, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []conversationTurnModel
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	turns := make([]domain.ChatTurn, 0, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		m := models[i]
		turns = append(turns, domain.ChatTurn{
			Role:      m.Role,
			Text:      m.Text,
			Intent:    domain.Intent(m.Intent),
			CreatedAt: m.CreatedAt,
		})
	}
	return turns, nil
}
