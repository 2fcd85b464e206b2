package service

import (
	"context"

	"aurora-messenger/backend/internal/models"

	"gorm.io/gorm"
)

// MessageService handles message-log persistence
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Append writes one accepted chat event to the message log. The timestamp
// is assigned at persistence time by the store.
func (s *MessageService) Append(ctx context.Context, sender, receiver, text string) error {
	message := &models.Message{
		Sender:   sender,
		Receiver: receiver,
		Text:     text,
	}
	return s.db.WithContext(ctx).Create(message).Error
}

// Conversation retrieves the message history between two users in
// timestamp order.
func (s *MessageService) Conversation(ctx context.Context, userA, userB string, limit int) ([]models.Message, error) {
	var messages []models.Message
	q := s.db.WithContext(ctx).
		Where("(sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)", userA, userB, userB, userA).
		Order("timestamp ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	result := q.Find(&messages)
	return messages, result.Error
}
