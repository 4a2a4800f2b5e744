package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
)

// ChatRepository defines chat message persistence operations.
type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	History(ctx context.Context, userID uuid.UUID, limit int) ([]model.ChatMessage, error)
	MarkRead(ctx context.Context, userID uuid.UUID, sender model.ChatSender) error
	ListConversations(ctx context.Context) ([]uuid.UUID, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// History returns the most recent messages of a conversation in
// chronological order.
func (r *chatRepository) History(ctx context.Context, userID uuid.UUID, limit int) ([]model.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var messages []model.ChatMessage
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead flags every unread message from sender in a conversation.
func (r *chatRepository) MarkRead(ctx context.Context, userID uuid.UUID, sender model.ChatSender) error {
	return r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Where("user_id = ? AND sender = ? AND `read` = ?", userID, sender, false).
		Update("read", true).Error
}

// ListConversations returns the user ids with at least one message,
// most recently active first.
func (r *chatRepository) ListConversations(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).
		Select("user_id").
		Group("user_id").
		Order("MAX(created_at) DESC").
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
