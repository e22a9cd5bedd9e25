package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
)

// ContentHandler handles processed-content and document endpoints.
type ContentHandler struct {
	catalog *service.CatalogService
}

// NewContentHandler creates a new content handler.
// Parameters:
//   - catalog: catalog read service.
// Returns:
//   - *ContentHandler: initialized handler.
func NewContentHandler(catalog *service.CatalogService) *ContentHandler {
	return &ContentHandler{catalog: catalog}
}

// GetContent handles GET /api/v1/contents/:id.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ContentHandler) GetContent(c *gin.Context) {
	detail, err := h.catalog.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(c, "Content not found")
			return
		}
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"content":    detail.Content,
		"flashcards": detail.Flashcards,
		"questions":  detail.Questions,
	})
}

// ListDocuments handles GET /api/v1/documents.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *ContentHandler) ListDocuments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	docs, err := h.catalog.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"data":  docs,
		"total": len(docs),
	})
}
