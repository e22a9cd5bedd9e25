package handler

import (
	"net/http"
	"strconv"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
)

// SearchHandler handles catalog search and statistics endpoints.
type SearchHandler struct {
	catalog *service.CatalogService
}

// NewSearchHandler creates a new search handler.
// Parameters:
//   - catalog: catalog read service.
// Returns:
//   - *SearchHandler: initialized handler.
func NewSearchHandler(catalog *service.CatalogService) *SearchHandler {
	return &SearchHandler{catalog: catalog}
}

// searchHit is one search result row. Relevance is a placeholder rank until
// result scoring exists; every hit carries 1.0.
type searchHit struct {
	domain.Lesson
	RelevanceScore float64 `json:"relevance_score"`
}

// SearchLessons handles GET /api/v1/search.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) SearchLessons(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	lessons, err := h.catalog.SearchLessons(
		c.Request.Context(),
		query,
		c.DefaultQuery("age_group", "all"),
		c.DefaultQuery("subject", "all"),
		limit,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]searchHit, 0, len(lessons))
	for _, lesson := range lessons {
		results = append(results, searchHit{Lesson: lesson, RelevanceScore: 1.0})
	}

	respondOK(c, http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"total":   len(results),
	})
}

// GetStats handles GET /api/v1/stats.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SearchHandler) GetStats(c *gin.Context) {
	stats, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"stats": stats})
}
