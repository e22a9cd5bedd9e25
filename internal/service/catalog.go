package service

import (
	"context"
	"errors"
	"strings"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// LessonSummary is one catalog listing row with its study-item counts.
type LessonSummary struct {
	domain.Lesson
	FlashcardCount int64 `json:"flashcards_count"`
	QuestionCount  int64 `json:"questions_count"`
}

// Pagination locates one page within a listing.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// LessonPage is one page of the published-lesson catalog.
type LessonPage struct {
	Items      []LessonSummary `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// LessonDetail is a published lesson with its embedded study items.
type LessonDetail struct {
	Lesson     *domain.Lesson     `json:"lesson"`
	Flashcards []domain.Flashcard `json:"flashcards"`
	Questions  []domain.Question  `json:"questions"`
}

// ContentDetail is one processed content row with its embedded study items.
type ContentDetail struct {
	Content    *domain.Content    `json:"content"`
	Flashcards []domain.Flashcard `json:"flashcards"`
	Questions  []domain.Question  `json:"questions"`
}

// CatalogStats aggregates platform-wide counters.
type CatalogStats struct {
	TotalLessons      int64            `json:"total_lessons"`
	TotalFlashcards   int64            `json:"total_flashcards"`
	TotalQuestions    int64            `json:"total_questions"`
	TotalDocuments    int64            `json:"total_documents"`
	LessonsByAgeGroup map[string]int64 `json:"lessons_by_age_group"`
	LessonsBySubject  map[string]int64 `json:"lessons_by_subject"`
}

// CatalogService serves the read-only catalog: published lessons, processed
// contents, search, and platform statistics.
type CatalogService struct {
	lessons    *repository.LessonRepository
	flashcards *repository.FlashcardRepository
	questions  *repository.QuestionRepository
	documents  *repository.DocumentRepository
	contents   *repository.ContentRepository
	logger     *logger.Logger
}

// NewCatalogService creates the catalog read service.
// Parameters:
//   - lessons, flashcards, questions, documents, contents: entity repositories.
//   - log: logger for catalog events.
//
// Returns:
//   - *CatalogService: initialized service.
func NewCatalogService(
	lessons *repository.LessonRepository,
	flashcards *repository.FlashcardRepository,
	questions *repository.QuestionRepository,
	documents *repository.DocumentRepository,
	contents *repository.ContentRepository,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		lessons:    lessons,
		flashcards: flashcards,
		questions:  questions,
		documents:  documents,
		contents:   contents,
		logger:     log,
	}
}

// log returns a logger from context if available, otherwise the service's own.
func (s *CatalogService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// ListLessons returns one page of published lessons, newest first, with
// per-lesson study-item counts.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - filter: filter and pagination settings; page and per-page are clamped
//     to sane bounds, and "all" filter values match everything.
//
// Returns:
//   - *LessonPage: page items plus pagination metadata.
//   - error: non-nil if the listing fails.
func (s *CatalogService) ListLessons(ctx context.Context, filter repository.LessonFilter) (*LessonPage, error) {
	if filter.Subject == "all" {
		filter.Subject = ""
	}
	if filter.AgeGroup == "all" {
		filter.AgeGroup = ""
	}
	if filter.Difficulty == "all" {
		filter.Difficulty = ""
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = defaultPageSize
	}
	if filter.PerPage > maxPageSize {
		filter.PerPage = maxPageSize
	}

	lessons, total, err := s.lessons.List(ctx, filter)
	if err != nil {
		return nil, domain.NewPersistenceError("list lessons", err)
	}

	items := make([]LessonSummary, 0, len(lessons))
	for _, lesson := range lessons {
		owner := domain.LessonOwner(lesson.ID)
		cards, err := s.flashcards.CountByOwner(ctx, owner)
		if err != nil {
			return nil, domain.NewPersistenceError("count lesson flashcards", err)
		}
		questions, err := s.questions.CountByOwner(ctx, owner)
		if err != nil {
			return nil, domain.NewPersistenceError("count lesson questions", err)
		}
		items = append(items, LessonSummary{
			Lesson:         lesson,
			FlashcardCount: cards,
			QuestionCount:  questions,
		})
	}

	pages := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	return &LessonPage{
		Items: items,
		Pagination: Pagination{
			Page:    filter.Page,
			PerPage: filter.PerPage,
			Total:   total,
			Pages:   pages,
			HasNext: filter.Page < pages,
			HasPrev: filter.Page > 1,
		},
	}, nil
}

// GetLesson returns a published lesson with its flashcards and questions.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: lesson ID.
//
// Returns:
//   - *LessonDetail: lesson with embedded study items.
//   - error: domain.ErrNotFound for missing or unpublished lessons.
func (s *CatalogService) GetLesson(ctx context.Context, id string) (*LessonDetail, error) {
	lesson, err := s.lessons.GetPublishedByID(ctx, id)
	if err != nil {
		return nil, lookupError("get lesson", err)
	}

	owner := domain.LessonOwner(lesson.ID)
	cards, err := s.flashcards.ListByOwner(ctx, owner)
	if err != nil {
		return nil, domain.NewPersistenceError("list lesson flashcards", err)
	}
	questions, err := s.questions.ListByOwner(ctx, owner)
	if err != nil {
		return nil, domain.NewPersistenceError("list lesson questions", err)
	}

	return &LessonDetail{Lesson: lesson, Flashcards: cards, Questions: questions}, nil
}

// LessonFlashcards returns the flashcards of a published lesson.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - lessonID: lesson ID.
//
// Returns:
//   - []domain.Flashcard: flashcards in creation order.
//   - error: domain.ErrNotFound for missing or unpublished lessons.
func (s *CatalogService) LessonFlashcards(ctx context.Context, lessonID string) ([]domain.Flashcard, error) {
	if _, err := s.lessons.GetPublishedByID(ctx, lessonID); err != nil {
		return nil, lookupError("get lesson", err)
	}

	cards, err := s.flashcards.ListByOwner(ctx, domain.LessonOwner(lessonID))
	if err != nil {
		return nil, domain.NewPersistenceError("list lesson flashcards", err)
	}
	return cards, nil
}

// LessonQuestions returns the quiz questions of a published lesson.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - lessonID: lesson ID.
//
// Returns:
//   - []domain.Question: questions in creation order.
//   - error: domain.ErrNotFound for missing or unpublished lessons.
func (s *CatalogService) LessonQuestions(ctx context.Context, lessonID string) ([]domain.Question, error) {
	if _, err := s.lessons.GetPublishedByID(ctx, lessonID); err != nil {
		return nil, lookupError("get lesson", err)
	}

	questions, err := s.questions.ListByOwner(ctx, domain.LessonOwner(lessonID))
	if err != nil {
		return nil, domain.NewPersistenceError("list lesson questions", err)
	}
	return questions, nil
}

// SearchLessons returns published lessons matching the query, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - q: search query; required.
//   - ageGroup: age group filter; empty or "all" matches everything.
//   - subject: subject filter; empty or "all" matches everything.
//   - limit: maximum results; clamped to [1, 100], defaulting to 20.
//
// Returns:
//   - []domain.Lesson: matching lessons.
//   - error: validation error for a missing query.
func (s *CatalogService) SearchLessons(ctx context.Context, q, ageGroup, subject string, limit int) ([]domain.Lesson, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.NewValidationError("search query is required")
	}
	if ageGroup == "all" {
		ageGroup = ""
	}
	if subject == "all" {
		subject = ""
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	lessons, err := s.lessons.Search(ctx, q, ageGroup, subject, limit)
	if err != nil {
		return nil, domain.NewPersistenceError("search lessons", err)
	}

	s.log(ctx).WithFields(logger.Fields{
		"query": q,
		"count": len(lessons),
	}).Debug("Lesson search completed")
	return lessons, nil
}

// Stats returns platform-wide counters over lessons, study items, and
// ingested documents.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//
// Returns:
//   - *CatalogStats: aggregate counters.
//   - error: non-nil if any counter query fails.
func (s *CatalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	lessons, err := s.lessons.CountPublished(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("count lessons", err)
	}
	cards, err := s.flashcards.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("count flashcards", err)
	}
	questions, err := s.questions.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("count questions", err)
	}
	documents, err := s.documents.Count(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("count documents", err)
	}
	byAgeGroup, err := s.lessons.CountPublishedByAgeGroup(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("count lessons by age group", err)
	}
	bySubject, err := s.lessons.CountPublishedBySubject(ctx)
	if err != nil {
		return nil, domain.NewPersistenceError("count lessons by subject", err)
	}

	return &CatalogStats{
		TotalLessons:      lessons,
		TotalFlashcards:   cards,
		TotalQuestions:    questions,
		TotalDocuments:    documents,
		LessonsByAgeGroup: byAgeGroup,
		LessonsBySubject:  bySubject,
	}, nil
}

// GetContent returns a processed content row with its flashcards and
// questions.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: content ID.
//
// Returns:
//   - *ContentDetail: content with embedded study items.
//   - error: domain.ErrNotFound if the content does not exist.
func (s *CatalogService) GetContent(ctx context.Context, id string) (*ContentDetail, error) {
	content, err := s.contents.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("get content", err)
	}

	owner := domain.ContentOwner(content.ID)
	cards, err := s.flashcards.ListByOwner(ctx, owner)
	if err != nil {
		return nil, domain.NewPersistenceError("list content flashcards", err)
	}
	questions, err := s.questions.ListByOwner(ctx, owner)
	if err != nil {
		return nil, domain.NewPersistenceError("list content questions", err)
	}

	return &ContentDetail{Content: content, Flashcards: cards, Questions: questions}, nil
}

// ListDocuments returns recently ingested documents, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum results; clamped to [1, 100], defaulting to 20.
//
// Returns:
//   - []domain.Document: document records.
//   - error: non-nil if the listing fails.
func (s *CatalogService) ListDocuments(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	docs, err := s.documents.List(ctx, limit, 0)
	if err != nil {
		return nil, domain.NewPersistenceError("list documents", err)
	}
	return docs, nil
}

// lookupError maps repository lookup failures onto the domain error space.
func lookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewPersistenceError(op, err)
}
