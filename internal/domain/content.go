package domain

import "time"

// Content holds the extracted text of a document together with the
// AI-generated study bundle (summary, key concepts, notes).
type Content struct {
	ID          string      `gorm:"type:text;primaryKey" json:"id"`
	DocumentID  string      `gorm:"type:text;not null;uniqueIndex:idx_contents_document" json:"document_id"`
	UserID      string      `gorm:"type:text;index:idx_contents_user" json:"user_id"`
	RawContent  string      `gorm:"type:text" json:"raw_content"`
	Summary     string      `gorm:"type:text" json:"summary"`
	Notes       string      `gorm:"type:text" json:"notes"`
	KeyConcepts StringArray `gorm:"type:text" json:"key_concepts"`
	Meta        Metadata    `gorm:"column:metadata;type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TableName returns the database table name for Content.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Content) TableName() string {
	return "contents"
}
