package api

import (
	"net/http"

	"github.com/edumorph/edumorph/internal/api/handler"
	"github.com/edumorph/edumorph/internal/api/middleware"
	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps bundles the services the router hands to its handlers.
type Deps struct {
	DB          *gorm.DB
	Catalog     *service.CatalogService
	Ingest      *service.IngestService
	Chat        *service.ChatService
	Discovery   *service.DiscoveryService
	Logger      *logger.Logger
	MaxUploadMB int
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Deps, cfg config.ServerConfig) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	if deps.MaxUploadMB > 0 {
		r.MaxMultipartMemory = int64(deps.MaxUploadMB) << 20
	}

	// Create handlers
	healthHandler := handler.NewHealthHandler(deps.DB)
	ingestHandler := handler.NewIngestHandler(deps.Ingest, deps.MaxUploadMB, deps.Logger)
	chatHandler := handler.NewChatHandler(deps.Chat)
	discoveryHandler := handler.NewDiscoveryHandler(deps.Discovery, deps.Logger)
	lessonHandler := handler.NewLessonHandler(deps.Catalog)
	searchHandler := handler.NewSearchHandler(deps.Catalog)
	contentHandler := handler.NewContentHandler(deps.Catalog)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Ingestion
		ingest := v1.Group("/ingest")
		{
			ingest.POST("/document", ingestHandler.UploadDocument)
			ingest.POST("/text", ingestHandler.IngestText)
			ingest.POST("/webpage", ingestHandler.IngestWebpage)
			ingest.POST("/youtube", ingestHandler.IngestYouTube)
		}

		// Web discovery
		v1.POST("/search/web", discoveryHandler.Discover)
		v1.GET("/search/web/status", discoveryHandler.Status)

		// Tutor chat
		v1.POST("/chat", chatHandler.Chat)
		v1.GET("/chat/history", chatHandler.History)

		// Lesson catalog
		v1.GET("/lessons", lessonHandler.ListLessons)
		v1.GET("/lessons/:id", lessonHandler.GetLesson)
		v1.GET("/lessons/:id/flashcards", lessonHandler.GetFlashcards)
		v1.GET("/lessons/:id/questions", lessonHandler.GetQuestions)

		// Search and stats
		v1.GET("/search", searchHandler.SearchLessons)
		v1.GET("/stats", searchHandler.GetStats)

		// Processed content
		v1.GET("/contents/:id", contentHandler.GetContent)
		v1.GET("/documents", contentHandler.ListDocuments)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "API endpoint not found"})
	})

	return r
}
