package handler

import (
	"fmt"
	"net/http"

	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
)

// IngestHandler handles the four ingestion entry points.
type IngestHandler struct {
	ingest      *service.IngestService
	maxUploadMB int
	logger      *logger.Logger
}

// NewIngestHandler creates a new ingest handler.
// Parameters:
//   - ingest: ingestion orchestrator.
//   - maxUploadMB: upload size cap in megabytes; non-positive means 20.
//   - log: logger instance.
// Returns:
//   - *IngestHandler: initialized handler.
func NewIngestHandler(ingest *service.IngestService, maxUploadMB int, log *logger.Logger) *IngestHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &IngestHandler{
		ingest:      ingest,
		maxUploadMB: maxUploadMB,
		logger:      log,
	}
}

// textIngestRequest carries a raw text submission.
type textIngestRequest struct {
	Text    string `json:"text" binding:"required"`
	Subject string `json:"subject"`
	UserID  string `json:"user_id"`
}

// urlIngestRequest carries a webpage or YouTube submission.
type urlIngestRequest struct {
	URL     string `json:"url" binding:"required"`
	Subject string `json:"subject"`
	UserID  string `json:"user_id"`
}

// UploadDocument handles POST /api/v1/ingest/document (multipart form).
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) UploadDocument(c *gin.Context) {
	ctx := c.Request.Context()

	file, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "No file provided")
		return
	}
	if file.Size > int64(h.maxUploadMB)<<20 {
		respondBadRequest(c, fmt.Sprintf("File exceeds %d MB limit", h.maxUploadMB))
		return
	}

	src, err := file.Open()
	if err != nil {
		logger.CtxWarn(ctx, "Failed to open uploaded file: filename=%s, error=%v", file.Filename, err)
		respondBadRequest(c, "Could not read uploaded file")
		return
	}
	defer src.Close()

	result, err := h.ingest.IngestUpload(ctx, src, file.Filename, c.PostForm("subject"), c.PostForm("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"data": result})
}

// IngestText handles POST /api/v1/ingest/text.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) IngestText(c *gin.Context) {
	var req textIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.ingest.IngestText(c.Request.Context(), req.Text, req.Subject, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"data": result})
}

// IngestWebpage handles POST /api/v1/ingest/webpage.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) IngestWebpage(c *gin.Context) {
	var req urlIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.ingest.IngestWebpage(c.Request.Context(), req.URL, req.Subject, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"data": result})
}

// IngestYouTube handles POST /api/v1/ingest/youtube.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *IngestHandler) IngestYouTube(c *gin.Context) {
	var req urlIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.ingest.IngestYouTube(c.Request.Context(), req.URL, req.Subject, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"data": result})
}
