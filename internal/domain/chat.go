package domain

import "time"

// ChatMessage records one tutor-chat exchange: the user's message and the
// assistant's reply, with an optional context label (e.g. a subject or
// lesson topic the question was asked about).
type ChatMessage struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	UserID      string    `gorm:"type:text;not null;index:idx_chat_messages_user" json:"user_id"`
	UserMessage string    `gorm:"type:text;not null" json:"user_message"`
	AIResponse  string    `gorm:"type:text" json:"ai_response"`
	Context     string    `gorm:"type:text" json:"context,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for ChatMessage.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
