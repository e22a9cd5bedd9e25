package domain

import "fmt"

// OwnerKind names the parent entity type of a derived study item.
// Values include OwnerLesson and OwnerContent.
type OwnerKind string

const (
	OwnerLesson  OwnerKind = "lesson"
	OwnerContent OwnerKind = "content"
)

// Owner is a tagged reference to the single parent of a derived study item.
// Flashcards and questions always hang off exactly one lesson or one content
// row; the zero Owner is invalid and rejected at save time.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// LessonOwner returns an Owner pointing at a lesson.
func LessonOwner(id string) Owner {
	return Owner{Kind: OwnerLesson, ID: id}
}

// ContentOwner returns an Owner pointing at a content row.
func ContentOwner(id string) Owner {
	return Owner{Kind: OwnerContent, ID: id}
}

// Valid reports whether the owner references exactly one known parent kind.
func (o Owner) Valid() bool {
	return o.ID != "" && (o.Kind == OwnerLesson || o.Kind == OwnerContent)
}

// columns projects the owner onto the two nullable FK columns.
func (o Owner) columns() (lessonID, contentID *string) {
	id := o.ID
	switch o.Kind {
	case OwnerLesson:
		return &id, nil
	case OwnerContent:
		return nil, &id
	}
	return nil, nil
}

// ownerFromColumns rebuilds the tagged reference from the FK columns.
func ownerFromColumns(lessonID, contentID *string) Owner {
	if lessonID != nil && *lessonID != "" {
		return LessonOwner(*lessonID)
	}
	if contentID != nil && *contentID != "" {
		return ContentOwner(*contentID)
	}
	return Owner{}
}

// validateOwnerColumns rejects rows where zero or both FK columns are set.
func validateOwnerColumns(entity string, lessonID, contentID *string) error {
	hasLesson := lessonID != nil && *lessonID != ""
	hasContent := contentID != nil && *contentID != ""
	if hasLesson && hasContent {
		return fmt.Errorf("%s: lesson and content owners are mutually exclusive", entity)
	}
	if !hasLesson && !hasContent {
		return fmt.Errorf("%s: an owner is required", entity)
	}
	return nil
}
