package domain

import (
	"time"

	"gorm.io/gorm"
)

// QuestionType represents the kind of a quiz question.
// Values include QuestionMultipleChoice, QuestionTrueFalse, and QuestionEssay.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionEssay          QuestionType = "essay"
)

// Question is a quiz question derived from lesson or document content.
type Question struct {
	ID              string       `gorm:"type:text;primaryKey" json:"id"`
	LessonID        *string      `gorm:"type:text;index:idx_questions_lesson" json:"lesson_id,omitempty"`
	ContentID       *string      `gorm:"type:text;index:idx_questions_content" json:"content_id,omitempty"`
	QuestionText    string       `gorm:"type:text;not null" json:"question_text"`
	AnswerText      string       `gorm:"type:text" json:"answer_text"`
	QuestionType    QuestionType `gorm:"type:text;default:multiple_choice" json:"question_type"`
	Options         StringArray  `gorm:"type:text" json:"options"`
	CorrectAnswer   string       `gorm:"type:text" json:"correct_answer,omitempty"`
	AIGenerated     bool         `gorm:"default:true" json:"ai_generated"`
	DifficultyLevel string       `gorm:"type:text" json:"difficulty_level,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// TableName returns the database table name for Question.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Question) TableName() string {
	return "questions"
}

// NewQuestion builds an AI-generated question attached to the given owner.
func NewQuestion(owner Owner, text, answer string, qtype QuestionType) *Question {
	q := &Question{
		QuestionText: text,
		AnswerText:   answer,
		QuestionType: qtype,
		AIGenerated:  true,
	}
	q.SetOwner(owner)
	return q
}

// SetOwner points the question at its single parent.
func (q *Question) SetOwner(o Owner) {
	q.LessonID, q.ContentID = o.columns()
}

// Owner returns the tagged parent reference.
func (q *Question) Owner() Owner {
	return ownerFromColumns(q.LessonID, q.ContentID)
}

// BeforeSave rejects rows that would violate the exactly-one-owner rule.
func (q *Question) BeforeSave(tx *gorm.DB) error {
	return validateOwnerColumns("question", q.LessonID, q.ContentID)
}
