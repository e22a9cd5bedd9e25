package repository

import (
	"context"

	"github.com/edumorph/edumorph/internal/domain"
	"gorm.io/gorm"
)

// LessonFilter narrows published-lesson listings.
// Zero-valued fields are ignored.
type LessonFilter struct {
	Subject    string
	AgeGroup   string
	Difficulty string
	Search     string // substring match on title, description, and topic
	Page       int
	PerPage    int
}

// LessonRepository handles lesson data operations.
type LessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository creates a new LessonRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *LessonRepository: repository instance bound to db.
func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
// Parameters:
//   - tx: open transaction handle.
// Returns:
//   - *LessonRepository: transaction-scoped repository.
func (r *LessonRepository) WithTx(tx *gorm.DB) *LessonRepository {
	return &LessonRepository{db: tx}
}

// Create inserts a new lesson record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - lesson: lesson record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *LessonRepository) Create(ctx context.Context, lesson *domain.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

// Update updates an existing lesson record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - lesson: lesson record with updated fields.
// Returns:
//   - error: non-nil if the update fails.
func (r *LessonRepository) Update(ctx context.Context, lesson *domain.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

// GetByID retrieves a lesson by its ID regardless of publication state.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: lesson ID.
// Returns:
//   - *domain.Lesson: lesson record if found.
//   - error: non-nil if lookup fails.
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetPublishedByID retrieves a published lesson by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: lesson ID.
// Returns:
//   - *domain.Lesson: lesson record if found and published.
//   - error: non-nil if lookup fails; gorm.ErrRecordNotFound for unpublished rows.
func (r *LessonRepository) GetPublishedByID(ctx context.Context, id string) (*domain.Lesson, error) {
	var lesson domain.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ? AND is_published = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// List retrieves published lessons matching the filter, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - filter: filter and pagination settings.
// Returns:
//   - []domain.Lesson: matching lesson records for the requested page.
//   - int64: total number of matching records across all pages.
//   - error: non-nil if the query fails.
func (r *LessonRepository) List(ctx context.Context, filter LessonFilter) ([]domain.Lesson, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Lesson{}).Where("is_published = ?", true)

	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.AgeGroup != "" {
		query = query.Where("age_group_target = ?", filter.AgeGroup)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty_level = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR topic LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}

	var lessons []domain.Lesson
	if err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&lessons).Error; err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

// Search retrieves published lessons whose text fields contain the query.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - q: substring to match on title, description, topic, or AI summary.
//   - ageGroup: optional age group filter; empty matches all.
//   - subject: optional subject filter; empty matches all.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.Lesson: matching lesson records.
//   - error: non-nil if the query fails.
func (r *LessonRepository) Search(ctx context.Context, q, ageGroup, subject string, limit int) ([]domain.Lesson, error) {
	like := "%" + q + "%"
	query := r.db.WithContext(ctx).Where("is_published = ?", true)
	if ageGroup != "" {
		query = query.Where("age_group_target = ?", ageGroup)
	}
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}

	var lessons []domain.Lesson
	if err := query.
		Where("title LIKE ? OR description LIKE ? OR topic LIKE ? OR ai_summary LIKE ?", like, like, like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// CountPublished counts published lessons.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int64: number of published lessons.
//   - error: non-nil if the query fails.
func (r *LessonRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Lesson{}).Where("is_published = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// groupCount carries one GROUP BY bucket.
type groupCount struct {
	Name  string
	Count int64
}

// CountPublishedByAgeGroup counts published lessons grouped by age group.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - map[string]int64: counts keyed by age group value.
//   - error: non-nil if the query fails.
func (r *LessonRepository) CountPublishedByAgeGroup(ctx context.Context) (map[string]int64, error) {
	return r.countPublishedGrouped(ctx, "age_group_target")
}

// CountPublishedBySubject counts published lessons grouped by subject.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - map[string]int64: counts keyed by subject.
//   - error: non-nil if the query fails.
func (r *LessonRepository) CountPublishedBySubject(ctx context.Context) (map[string]int64, error) {
	return r.countPublishedGrouped(ctx, "subject")
}

func (r *LessonRepository) countPublishedGrouped(ctx context.Context, column string) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).
		Model(&domain.Lesson{}).
		Select(column+" AS name, COUNT(*) AS count").
		Where("is_published = ?", true).
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		if row.Name == "" {
			continue
		}
		counts[row.Name] = row.Count
	}
	return counts, nil
}
