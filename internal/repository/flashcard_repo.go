package repository

import (
	"context"
	"fmt"

	"github.com/edumorph/edumorph/internal/domain"
	"gorm.io/gorm"
)

// FlashcardRepository handles flashcard data operations.
type FlashcardRepository struct {
	db *gorm.DB
}

// NewFlashcardRepository creates a new FlashcardRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *FlashcardRepository: repository instance bound to db.
func NewFlashcardRepository(db *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Parameters:
//   - tx: open transaction handle.
// Returns:
//   - *FlashcardRepository: transaction-scoped repository.
func (r *FlashcardRepository) WithTx(tx *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{db: tx}
}

// Create inserts a new flashcard record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - card: flashcard record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *FlashcardRepository) Create(ctx context.Context, card *domain.Flashcard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// CreateBatch inserts multiple flashcard records in one statement.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - cards: flashcard records to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *FlashcardRepository) CreateBatch(ctx context.Context, cards []*domain.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(cards).Error
}

// ListByOwner retrieves all flashcards attached to the given owner.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - owner: tagged parent reference (lesson or content).
// Returns:
//   - []domain.Flashcard: matching flashcard records.
//   - error: non-nil if the owner is invalid or the query fails.
func (r *FlashcardRepository) ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.Flashcard, error) {
	query := r.db.WithContext(ctx)
	switch owner.Kind {
	case domain.OwnerLesson:
		query = query.Where("lesson_id = ?", owner.ID)
	case domain.OwnerContent:
		query = query.Where("content_id = ?", owner.ID)
	default:
		return nil, fmt.Errorf("invalid flashcard owner kind %q", owner.Kind)
	}

	var cards []domain.Flashcard
	if err := query.Order("created_at ASC").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// CountByOwner counts the flashcards attached to the given owner.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - owner: tagged parent reference (lesson or content).
// Returns:
//   - int64: number of matching records.
//   - error: non-nil if the owner is invalid or the query fails.
func (r *FlashcardRepository) CountByOwner(ctx context.Context, owner domain.Owner) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Flashcard{})
	switch owner.Kind {
	case domain.OwnerLesson:
		query = query.Where("lesson_id = ?", owner.ID)
	case domain.OwnerContent:
		query = query.Where("content_id = ?", owner.ID)
	default:
		return 0, fmt.Errorf("invalid flashcard owner kind %q", owner.Kind)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts all flashcard records.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *FlashcardRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Flashcard{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
