package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edumorph/edumorph/internal/api"
	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/edumorph/edumorph/internal/service"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	documentRepo := repository.NewDocumentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	flashcardRepo := repository.NewFlashcardRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Initialize services
	extractor := extract.NewService(&cfg.Extract)
	generator := service.NewContentGenerator(cfg, appLogger)

	// The tutor chat talks to the same provider with its own model and
	// token budget.
	chatLLM := cfg.OpenAI.Clone()
	if cfg.Chat.Model != "" {
		chatLLM.Model = cfg.Chat.Model
	}
	chatService := service.NewChatService(service.NewOpenAIClient(chatLLM), chatRepo, &cfg.Chat, appLogger)

	ingestService := service.NewIngestService(
		db,
		documentRepo,
		contentRepo,
		flashcardRepo,
		questionRepo,
		lessonRepo,
		extractor,
		generator,
		&cfg.Ingest,
		appLogger,
	)
	catalogService := service.NewCatalogService(
		lessonRepo,
		flashcardRepo,
		questionRepo,
		documentRepo,
		contentRepo,
		appLogger,
	)
	webSearch := service.NewWebSearchService(&cfg.Search, appLogger)
	discoveryService := service.NewDiscoveryService(
		db,
		webSearch,
		ingestService,
		extractor,
		documentRepo,
		contentRepo,
		appLogger,
	)

	appLogger.WithField("backends", generator.Backends()).Info("Generation chain ready")

	// Setup router
	router := api.SetupRouter(api.Deps{
		DB:          db,
		Catalog:     catalogService,
		Ingest:      ingestService,
		Chat:        chatService,
		Discovery:   discoveryService,
		Logger:      appLogger,
		MaxUploadMB: cfg.Ingest.MaxUploadMB,
	}, cfg.Server)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
