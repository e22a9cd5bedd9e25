package repository

import (
	"context"

	"github.com/edumorph/edumorph/internal/domain"
	"gorm.io/gorm"
)

// ChatRepository handles tutor-chat history operations.
type ChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Create inserts a new chat exchange record.
func (r *ChatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListRecentByUser retrieves a user's most recent chat exchanges, newest first.
func (r *ChatRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// Count counts all chat exchange records.
func (r *ChatRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.ChatMessage{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
