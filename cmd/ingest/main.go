package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/edumorph/edumorph/internal/service"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "edumorph-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	file := flag.String("file", "", "Document file to ingest (pdf, docx, txt, md, ppt, pptx)")
	text := flag.String("text", "", "Raw text to ingest")
	webpage := flag.String("webpage", "", "Webpage URL to ingest")
	youtube := flag.String("youtube", "", "YouTube URL to ingest")
	subject := flag.String("subject", "", "Academic subject (default \"general\")")
	user := flag.String("user", "cli", "Owning user ID")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	sources := 0
	for _, v := range []string{*file, *text, *webpage, *youtube} {
		if v != "" {
			sources++
		}
	}
	if sources != 1 {
		appLogger.Fatal("Exactly one of -file, -text, -webpage, -youtube is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories and services
	documentRepo := repository.NewDocumentRepository(db)
	contentRepo := repository.NewContentRepository(db)
	flashcardRepo := repository.NewFlashcardRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	extractor := extract.NewService(&cfg.Extract)
	generator := service.NewContentGenerator(cfg, appLogger)
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

	appLogger.WithField("backends", generator.Backends()).Info("Generation chain ready")

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Run the ingestion
	var result *service.IngestResult
	switch {
	case *file != "":
		result, err = ingestService.IngestFile(ctx, *file, filepath.Base(*file), *subject, *user)
	case *text != "":
		result, err = ingestService.IngestText(ctx, *text, *subject, *user)
	case *webpage != "":
		result, err = ingestService.IngestWebpage(ctx, *webpage, *subject, *user)
	case *youtube != "":
		result, err = ingestService.IngestYouTube(ctx, *youtube, *subject, *user)
	}
	if err != nil {
		appLogger.WithError(err).Fatal("Ingestion failed")
	}

	appLogger.WithFields(logger.Fields{
		"document_id": result.DocumentID,
		"content_id":  result.ContentID,
		"lesson_id":   result.LessonID,
		"flashcards":  result.FlashcardCount,
		"questions":   result.QuestionCount,
	}).Info("Ingestion completed")
}
