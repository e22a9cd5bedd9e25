package domain

import (
	"time"

	"gorm.io/gorm"
)

// Flashcard is a term/definition pair derived from lesson or document content.
type Flashcard struct {
	ID              string    `gorm:"type:text;primaryKey" json:"id"`
	LessonID        *string   `gorm:"type:text;index:idx_flashcards_lesson" json:"lesson_id,omitempty"`
	ContentID       *string   `gorm:"type:text;index:idx_flashcards_content" json:"content_id,omitempty"`
	Term            string    `gorm:"type:text;not null" json:"term"`
	Definition      string    `gorm:"type:text;not null" json:"definition"`
	Context         string    `gorm:"type:text" json:"context,omitempty"`
	Example         string    `gorm:"type:text" json:"example,omitempty"`
	AIGenerated     bool      `gorm:"default:true" json:"ai_generated"`
	ConfidenceScore float64   `gorm:"default:0" json:"confidence_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName returns the database table name for Flashcard.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Flashcard) TableName() string {
	return "flashcards"
}

// NewFlashcard builds an AI-generated flashcard attached to the given owner.
func NewFlashcard(owner Owner, term, definition string) *Flashcard {
	f := &Flashcard{Term: term, Definition: definition, AIGenerated: true}
	f.SetOwner(owner)
	return f
}

// SetOwner points the flashcard at its single parent.
func (f *Flashcard) SetOwner(o Owner) {
	f.LessonID, f.ContentID = o.columns()
}

// Owner returns the tagged parent reference.
func (f *Flashcard) Owner() Owner {
	return ownerFromColumns(f.LessonID, f.ContentID)
}

// BeforeSave rejects rows that would violate the exactly-one-owner rule.
func (f *Flashcard) BeforeSave(tx *gorm.DB) error {
	return validateOwnerColumns("flashcard", f.LessonID, f.ContentID)
}
