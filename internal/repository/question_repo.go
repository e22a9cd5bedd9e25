package repository

import (
	"context"
	"fmt"

	"github.com/edumorph/edumorph/internal/domain"
	"gorm.io/gorm"
)

// QuestionRepository handles quiz-question data operations.
type QuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new QuestionRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *QuestionRepository: repository instance bound to db.
func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Parameters:
//   - tx: open transaction handle.
// Returns:
//   - *QuestionRepository: transaction-scoped repository.
func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: tx}
}

// Create inserts a new question record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - question: question record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

// CreateBatch inserts multiple question records in one statement.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - questions: question records to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []*domain.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(questions).Error
}

// ListByOwner retrieves all questions attached to the given owner.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - owner: tagged parent reference (lesson or content).
// Returns:
//   - []domain.Question: matching question records.
//   - error: non-nil if the owner is invalid or the query fails.
func (r *QuestionRepository) ListByOwner(ctx context.Context, owner domain.Owner) ([]domain.Question, error) {
	query := r.db.WithContext(ctx)
	switch owner.Kind {
	case domain.OwnerLesson:
		query = query.Where("lesson_id = ?", owner.ID)
	case domain.OwnerContent:
		query = query.Where("content_id = ?", owner.ID)
	default:
		return nil, fmt.Errorf("invalid question owner kind %q", owner.Kind)
	}

	var questions []domain.Question
	if err := query.Order("created_at ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// CountByOwner counts the questions attached to the given owner.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - owner: tagged parent reference (lesson or content).
// Returns:
//   - int64: number of matching records.
//   - error: non-nil if the owner is invalid or the query fails.
func (r *QuestionRepository) CountByOwner(ctx context.Context, owner domain.Owner) (int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Question{})
	switch owner.Kind {
	case domain.OwnerLesson:
		query = query.Where("lesson_id = ?", owner.ID)
	case domain.OwnerContent:
		query = query.Where("content_id = ?", owner.ID)
	default:
		return 0, fmt.Errorf("invalid question owner kind %q", owner.Kind)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts all question records.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of records.
//   - error: non-nil if the query fails.
func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Question{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
