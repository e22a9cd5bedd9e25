package repository

import (
	"context"

	"github.com/edumorph/edumorph/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository handles document data operations.
type DocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *DocumentRepository: repository instance bound to db.
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Parameters:
//   - tx: open transaction handle.
// Returns:
//   - *DocumentRepository: transaction-scoped repository.
func (r *DocumentRepository) WithTx(tx *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// Create inserts a new document record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - doc: document record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// Update updates an existing document record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - doc: document record with updated fields.
// Returns:
//   - error: non-nil if the update fails.
func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// GetByID retrieves a document by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: document ID.
// Returns:
//   - *domain.Document: document record if found.
//   - error: non-nil if lookup fails.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetBySourceURL retrieves a document by its source URL.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: original source URL.
// Returns:
//   - *domain.Document: document record if found.
//   - error: non-nil if lookup fails.
func (r *DocumentRepository) GetBySourceURL(ctx context.Context, url string) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.WithContext(ctx).First(&doc, "source_url = ?", url).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ExistsBySourceURL checks if a document with the given source URL exists.
// Used for de-duplication during web discovery.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: original source URL.
// Returns:
//   - bool: true if a record exists.
//   - error: non-nil if the lookup fails.
func (r *DocumentRepository) ExistsBySourceURL(ctx context.Context, url string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Document{}).Where("source_url = ?", url).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves documents ordered by upload time with pagination.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
//   - offset: number of records to skip.
// Returns:
//   - []domain.Document: matching document records.
//   - error: non-nil if the query fails.
func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]domain.Document, error) {
	var docs []domain.Document
	if err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Count counts all document records.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Document{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a document by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: document ID to delete.
// Returns:
//   - error: non-nil if the delete fails.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id).Error
}
