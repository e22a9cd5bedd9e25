package domain

import "time"

// AgeGroup represents the audience bracket a lesson targets.
// Values include AgeGroupChildren, AgeGroupTeens, AgeGroupYoungAdults, and AgeGroupAdults.
type AgeGroup string

const (
	AgeGroupChildren    AgeGroup = "children"
	AgeGroupTeens       AgeGroup = "teens"
	AgeGroupYoungAdults AgeGroup = "young_adults"
	AgeGroupAdults      AgeGroup = "adults"
)

// ContentFormat represents the source format a lesson was built from.
type ContentFormat string

const (
	FormatText    ContentFormat = "text"
	FormatAudio   ContentFormat = "audio"
	FormatVideo   ContentFormat = "video"
	FormatPDF     ContentFormat = "pdf"
	FormatDocx    ContentFormat = "docx"
	FormatImage   ContentFormat = "image"
	FormatYouTube ContentFormat = "youtube"
)

// Lesson is a published study unit: either synthesized from an ingested
// document or authored directly. Only published lessons are served by the
// catalog API.
type Lesson struct {
	ID              string        `gorm:"type:text;primaryKey" json:"id"`
	Title           string        `gorm:"type:text;not null" json:"title"`
	Description     string        `gorm:"type:text" json:"description"`
	Topic           string        `gorm:"type:text;index:idx_lessons_topic" json:"topic"`
	Subject         string        `gorm:"type:text;index:idx_lessons_subject" json:"subject"`
	FormatType      ContentFormat `gorm:"type:text;default:text" json:"format_type"`
	AISummary       string        `gorm:"type:text" json:"ai_summary"`
	KeyPoints       StringArray   `gorm:"type:text" json:"key_points"`
	DifficultyLevel string        `gorm:"type:text" json:"difficulty_level,omitempty"`
	// EstimatedDuration is the expected study time in minutes. Zero means unknown.
	EstimatedDuration int         `gorm:"default:0" json:"estimated_duration,omitempty"`
	AgeGroupTarget    AgeGroup    `gorm:"type:text;index:idx_lessons_age_group" json:"age_group_target,omitempty"`
	TeacherID         string      `gorm:"type:text" json:"teacher_id,omitempty"`
	Tags              StringArray `gorm:"type:text" json:"tags"`
	IsPublished       bool        `gorm:"default:false;index:idx_lessons_published" json:"is_published"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Lesson.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Lesson) TableName() string {
	return "lessons"
}
