package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
)

// DiscoveryHandler handles web discovery endpoints. Runs are serialized:
// a discovery sweep downloads documents and calls generation backends, so
// only one may be in flight at a time.
type DiscoveryHandler struct {
	discovery *service.DiscoveryService
	logger    *logger.Logger

	mu            sync.RWMutex
	isRunning     bool
	lastReport    *service.DiscoveryReport
	lastRunTime   time.Time
	lastRunStatus string
}

// NewDiscoveryHandler creates a new discovery handler.
// Parameters:
//   - discovery: web discovery service.
//   - log: logger instance.
// Returns:
//   - *DiscoveryHandler: initialized handler.
func NewDiscoveryHandler(discovery *service.DiscoveryService, log *logger.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discovery: discovery,
		logger:    log,
	}
}

// discoveryRequest carries one discovery sweep request.
type discoveryRequest struct {
	Query      string `json:"query" binding:"required"`
	Subject    string `json:"subject"`
	UserID     string `json:"user_id"`
	MaxResults int    `json:"max_results"`
}

// discoveryStatusResponse reports the discovery job state.
type discoveryStatusResponse struct {
	IsRunning     bool                     `json:"is_running"`
	LastRunTime   string                   `json:"last_run_time,omitempty"`
	LastRunStatus string                   `json:"last_run_status,omitempty"`
	LastReport    *service.DiscoveryReport `json:"last_report,omitempty"`
}

// Discover handles POST /api/v1/search/web.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	ctx := c.Request.Context()

	var req discoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.CtxWarn(ctx, "Invalid discovery request: client_ip=%s, error=%v", c.ClientIP(), err)
		respondBadRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.mu.Lock()
	if h.isRunning {
		h.mu.Unlock()
		logger.CtxWarn(ctx, "Discovery request rejected: already running, client_ip=%s", c.ClientIP())
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Discovery is already running"})
		return
	}
	h.isRunning = true
	h.mu.Unlock()

	logger.CtxInfo(ctx, "Starting web discovery: query=%s, max_results=%d, client_ip=%s",
		req.Query, req.MaxResults, c.ClientIP())

	// Detach from the request deadline but keep the request-scoped log
	// fields; a sweep can outlive slow HTTP clients.
	runCtx := logger.FromContext(ctx).WithContext(context.Background())
	report, err := h.discovery.DiscoverAndIngest(runCtx, req.Query, req.Subject, req.UserID, req.MaxResults)

	h.mu.Lock()
	h.isRunning = false
	h.lastReport = report
	h.lastRunTime = time.Now()
	if err != nil {
		h.lastRunStatus = "failed: " + err.Error()
	} else {
		h.lastRunStatus = "success"
	}
	h.mu.Unlock()

	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"data": report})
}

// Status handles GET /api/v1/search/web/status.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *DiscoveryHandler) Status(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := discoveryStatusResponse{
		IsRunning:     h.isRunning,
		LastRunStatus: h.lastRunStatus,
		LastReport:    h.lastReport,
	}
	if !h.lastRunTime.IsZero() {
		resp.LastRunTime = h.lastRunTime.Format(time.RFC3339)
	}

	respondOK(c, http.StatusOK, gin.H{"data": resp})
}
