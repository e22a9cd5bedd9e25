package repository

import (
	"context"

	"github.com/edumorph/edumorph/internal/domain"
	"gorm.io/gorm"
)

// ContentRepository handles extracted-content data operations.
type ContentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ContentRepository: repository instance bound to db.
func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Parameters:
//   - tx: open transaction handle.
// Returns:
//   - *ContentRepository: transaction-scoped repository.
func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{db: tx}
}

// Create inserts a new content record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - content: content record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *ContentRepository) Create(ctx context.Context, content *domain.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

// GetByID retrieves a content record by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: content ID.
// Returns:
//   - *domain.Content: content record if found.
//   - error: non-nil if lookup fails.
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*domain.Content, error) {
	var content domain.Content
	if err := r.db.WithContext(ctx).First(&content, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// GetByDocumentID retrieves the content record belonging to a document.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - documentID: owning document ID.
// Returns:
//   - *domain.Content: content record if found.
//   - error: non-nil if lookup fails.
func (r *ContentRepository) GetByDocumentID(ctx context.Context, documentID string) (*domain.Content, error) {
	var content domain.Content
	if err := r.db.WithContext(ctx).First(&content, "document_id = ?", documentID).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

// Count counts all content records.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *ContentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Content{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
