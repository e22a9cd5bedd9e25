package domain

import "time"

// Document represents one ingested source: an uploaded file, a pasted text
// blob, a fetched webpage, or a YouTube transcript.
type Document struct {
	ID            string    `gorm:"type:text;primaryKey" json:"id"`
	Filename      string    `gorm:"type:text;not null" json:"filename"`
	Subject       string    `gorm:"type:text;not null;index:idx_documents_subject" json:"subject"`
	UserID        string    `gorm:"type:text;index:idx_documents_user" json:"user_id"`
	ContentLength int       `gorm:"default:0" json:"content_length"`
	FileType      string    `gorm:"type:text" json:"file_type"`
	SourceURL     string    `gorm:"type:text" json:"source_url,omitempty"`
	Processed     bool      `gorm:"default:false" json:"processed"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// TableName returns the database table name for Document.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Document) TableName() string {
	return "documents"
}
