package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
)

// LessonHandler handles published-lesson catalog endpoints.
type LessonHandler struct {
	catalog *service.CatalogService
}

// NewLessonHandler creates a new lesson handler.
// Parameters:
//   - catalog: catalog read service.
// Returns:
//   - *LessonHandler: initialized handler.
func NewLessonHandler(catalog *service.CatalogService) *LessonHandler {
	return &LessonHandler{catalog: catalog}
}

// ListLessons handles GET /api/v1/lessons.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LessonHandler) ListLessons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := h.catalog.ListLessons(c.Request.Context(), repository.LessonFilter{
		Subject:    c.Query("subject"),
		AgeGroup:   c.Query("age_group"),
		Difficulty: c.Query("difficulty"),
		Search:     c.Query("search"),
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"lessons":    result.Items,
		"pagination": result.Pagination,
	})
}

// GetLesson handles GET /api/v1/lessons/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LessonHandler) GetLesson(c *gin.Context) {
	detail, err := h.catalog.GetLesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, "Lesson not found")
			return
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"lesson":     detail.Lesson,
		"flashcards": detail.Flashcards,
		"questions":  detail.Questions,
	})
}

// GetFlashcards handles GET /api/v1/lessons/:id/flashcards.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LessonHandler) GetFlashcards(c *gin.Context) {
	cards, err := h.catalog.LessonFlashcards(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, "Lesson not found")
			return
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":  cards,
		"total": len(cards),
	})
}

// GetQuestions handles GET /api/v1/lessons/:id/questions.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LessonHandler) GetQuestions(c *gin.Context) {
	questions, err := h.catalog.LessonQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, "Lesson not found")
			return
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":  questions,
		"total": len(questions),
	})
}
