package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stage identifies the ingestion pipeline phase. It travels with the
// request logger so every line names the phase it was emitted from.
type Stage string

const (
	StageReceived   Stage = "received"
	StageExtracting Stage = "extracting"
	StageGenerating Stage = "generating"
	StagePersisting Stage = "persisting"
	StageCommitted  Stage = "committed"
	StageFailed     Stage = "failed"
)

// IngestResult reports one committed ingestion.
type IngestResult struct {
	DocumentID     string   `json:"document_id"`
	ContentID      string   `json:"content_id"`
	LessonID       string   `json:"lesson_id,omitempty"`
	Summary        string   `json:"summary"`
	KeyConcepts    []string `json:"key_concepts"`
	FlashcardCount int      `json:"flashcard_count"`
	QuestionCount  int      `json:"question_count"`
}

// ingestSource describes one pending ingestion before extraction.
// Exactly one of artifact or text carries the material.
type ingestSource struct {
	kind       string // upload, text, webpage, youtube
	artifact   *extract.Artifact
	text       string
	filename   string
	fileType   string
	sourceURL  string
	makeLesson bool
}

// IngestService runs the ingestion pipeline: extract, generate, persist.
// Persistence is all-or-nothing inside one transaction; the synthesized
// lesson is the only best-effort write.
type IngestService struct {
	db         *gorm.DB
	documents  *repository.DocumentRepository
	contents   *repository.ContentRepository
	flashcards *repository.FlashcardRepository
	questions  *repository.QuestionRepository
	lessons    *repository.LessonRepository
	extractor  *extract.Service
	generator  *ContentGenerator
	tempDir    string
	logger     *logger.Logger
}

// NewIngestService creates the ingestion orchestrator.
// Parameters:
//   - db: GORM handle owning the ingestion transaction.
//   - documents, contents, flashcards, questions, lessons: entity repositories.
//   - extractor: per-format text extraction service.
//   - generator: study-bundle and study-tool generator.
//   - cfg: ingestion configuration (temp directory).
//   - log: logger for pipeline events.
//
// Returns:
//   - *IngestService: initialized orchestrator.
func NewIngestService(
	db *gorm.DB,
	documents *repository.DocumentRepository,
	contents *repository.ContentRepository,
	flashcards *repository.FlashcardRepository,
	questions *repository.QuestionRepository,
	lessons *repository.LessonRepository,
	extractor *extract.Service,
	generator *ContentGenerator,
	cfg *config.IngestConfig,
	log *logger.Logger,
) *IngestService {
	return &IngestService{
		db:         db,
		documents:  documents,
		contents:   contents,
		flashcards: flashcards,
		questions:  questions,
		lessons:    lessons,
		extractor:  extractor,
		generator:  generator,
		tempDir:    cfg.TempDir,
		logger:     log,
	}
}

// log returns a logger from context if available, otherwise the service's own.
func (s *IngestService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// IngestUpload saves an uploaded document to a temporary file and runs the
// pipeline on it. The temporary file is removed on success and failure alike.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - r: uploaded file contents.
//   - filename: original filename; its extension selects the extractor.
//   - subject: academic subject; empty means "general".
//   - userID: owning user.
//
// Returns:
//   - *IngestResult: committed ingestion report.
//   - error: validation, extraction, or persistence error.
func (s *IngestService) IngestUpload(ctx context.Context, r io.Reader, filename, subject, userID string) (*IngestResult, error) {
	return s.runUpload(ctx, r, filename, "upload", "", subject, userID)
}

// IngestDownload runs the upload pipeline on a document fetched from the web,
// recording its source URL for de-duplication.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - r: downloaded file contents.
//   - filename: filename derived from the URL; its extension selects the extractor.
//   - sourceURL: where the document was fetched from.
//   - subject: academic subject; empty means "general".
//   - userID: owning user.
//
// Returns:
//   - *IngestResult: committed ingestion report.
//   - error: validation, extraction, or persistence error.
func (s *IngestService) IngestDownload(ctx context.Context, r io.Reader, filename, sourceURL, subject, userID string) (*IngestResult, error) {
	return s.runUpload(ctx, r, filename, "discovery", sourceURL, subject, userID)
}

// runUpload spools the reader to a temp file and runs the pipeline on it.
func (s *IngestService) runUpload(ctx context.Context, r io.Reader, filename, kind, sourceURL, subject, userID string) (*IngestResult, error) {
	format, ok := extract.FormatFromFilename(filename)
	if !ok {
		return nil, domain.NewValidationError("unsupported file type: %q", filename)
	}

	tempPath, err := s.saveTemp(r, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			s.log(ctx).WithError(err).Warn("Failed to remove temp file")
		}
	}()

	return s.run(ctx, &ingestSource{
		kind:       kind,
		artifact:   &extract.Artifact{Path: tempPath, Filename: filename, Format: format},
		filename:   filename,
		fileType:   string(format),
		sourceURL:  sourceURL,
		makeLesson: true,
	}, subject, userID)
}

// IngestFile runs the pipeline on a file already on disk. The caller keeps
// ownership of the file.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - path: file location on disk.
//   - filename: name used for format detection and the document record.
//   - subject: academic subject; empty means "general".
//   - userID: owning user.
//
// Returns:
//   - *IngestResult: committed ingestion report.
//   - error: validation, extraction, or persistence error.
func (s *IngestService) IngestFile(ctx context.Context, path, filename, subject, userID string) (*IngestResult, error) {
	format, ok := extract.FormatFromFilename(filename)
	if !ok {
		return nil, domain.NewValidationError("unsupported file type: %q", filename)
	}

	return s.run(ctx, &ingestSource{
		kind:       "upload",
		artifact:   &extract.Artifact{Path: path, Filename: filename, Format: format},
		filename:   filename,
		fileType:   string(format),
		makeLesson: true,
	}, subject, userID)
}

// IngestText runs the pipeline on a pasted text blob.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - text: raw text content; must be non-empty.
//   - subject: academic subject; empty means "general".
//   - userID: owning user.
//
// Returns:
//   - *IngestResult: committed ingestion report.
//   - error: validation or persistence error.
func (s *IngestService) IngestText(ctx context.Context, text, subject, userID string) (*IngestResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("no text content provided")
	}

	filename := fmt.Sprintf("text_input_%s.txt", time.Now().Format("20060102_150405"))
	return s.run(ctx, &ingestSource{
		kind:     "text",
		text:     text,
		filename: filename,
		fileType: "txt",
	}, subject, userID)
}

// IngestWebpage fetches a webpage, strips its markup, and runs the pipeline
// on the remaining text.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: webpage address; must be non-empty.
//   - subject: academic subject; empty means "general".
//   - userID: owning user.
//
// Returns:
//   - *IngestResult: committed ingestion report.
//   - error: validation, extraction, or persistence error.
func (s *IngestService) IngestWebpage(ctx context.Context, url, subject, userID string) (*IngestResult, error) {
	if url == "" {
		return nil, domain.NewValidationError("no URL provided")
	}

	filename := fmt.Sprintf("webpage_%s.html", time.Now().Format("20060102_150405"))
	return s.run(ctx, &ingestSource{
		kind:      "webpage",
		artifact:  &extract.Artifact{URL: url, Format: extract.FormatWebpage},
		filename:  filename,
		fileType:  "html",
		sourceURL: url,
	}, subject, userID)
}

// IngestYouTube extracts a video transcript (or its metadata stub) and runs
// the pipeline on it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: video address; must be a recognizable YouTube URL.
//   - subject: academic subject; empty means "general".
//   - userID: owning user.
//
// Returns:
//   - *IngestResult: committed ingestion report.
//   - error: validation, extraction, or persistence error.
func (s *IngestService) IngestYouTube(ctx context.Context, url, subject, userID string) (*IngestResult, error) {
	if url == "" {
		return nil, domain.NewValidationError("no URL provided")
	}
	videoID, err := extract.VideoID(url)
	if err != nil {
		return nil, domain.NewValidationError("not a YouTube URL: %q", url)
	}

	return s.run(ctx, &ingestSource{
		kind:      "youtube",
		artifact:  &extract.Artifact{URL: url, Format: extract.FormatYouTube},
		filename:  fmt.Sprintf("youtube_%s.txt", videoID),
		fileType:  "youtube",
		sourceURL: url,
	}, subject, userID)
}

// run executes the pipeline stages for one source.
func (s *IngestService) run(ctx context.Context, src *ingestSource, subject, userID string) (*IngestResult, error) {
	if subject == "" {
		subject = "general"
	}

	start := time.Now()
	ctx = logger.SetSource(ctx, src.kind)
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldSubject: subject,
		logger.FieldUserID:  userID,
	})
	ctx = logger.SetStage(ctx, string(StageReceived))

	s.log(ctx).WithField("filename", src.filename).Info("Starting ingestion")

	// Extracting
	ctx = logger.SetStage(ctx, string(StageExtracting))
	text := src.text
	if src.artifact != nil {
		extracted, err := s.extractor.Extract(ctx, src.artifact)
		if err != nil {
			s.log(ctx).WithError(err).Error("Ingestion failed")
			return nil, asExtractionError(src, err)
		}
		text = extracted
	}

	// Generating; the chain cannot fail, only degrade
	ctx = logger.SetStage(ctx, string(StageGenerating))
	bundle := s.generator.Generate(ctx, subject, text)
	cards := s.generator.Flashcards(ctx, text, bundle.KeyConcepts)
	questions := s.generator.Questions(ctx, text, bundle.KeyConcepts)

	// Persisting
	ctx = logger.SetStage(ctx, string(StagePersisting))
	now := time.Now()
	doc := &domain.Document{
		ID:            uuid.New().String(),
		Filename:      src.filename,
		Subject:       subject,
		UserID:        userID,
		ContentLength: len(text),
		FileType:      src.fileType,
		SourceURL:     src.sourceURL,
		Processed:     true,
		UploadedAt:    now,
	}
	ctx = logger.SetDocumentID(ctx, doc.ID)

	content := &domain.Content{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		UserID:      userID,
		RawContent:  text,
		Summary:     bundle.Summary,
		Notes:       bundle.Notes,
		KeyConcepts: domain.StringArray(bundle.KeyConcepts),
		CreatedAt:   now,
	}

	owner := domain.ContentOwner(content.ID)
	cardRows := buildFlashcards(owner, cards, now)
	questionRows := buildQuestions(owner, questions, now)

	var lessonID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.documents.WithTx(tx).Create(ctx, doc); err != nil {
			return domain.NewPersistenceError("create document", err)
		}
		if err := s.contents.WithTx(tx).Create(ctx, content); err != nil {
			return domain.NewPersistenceError("create content", err)
		}
		if err := s.flashcards.WithTx(tx).CreateBatch(ctx, cardRows); err != nil {
			return domain.NewPersistenceError("create flashcards", err)
		}
		if err := s.questions.WithTx(tx).CreateBatch(ctx, questionRows); err != nil {
			return domain.NewPersistenceError("create questions", err)
		}

		if src.makeLesson {
			lesson := lessonFromBundle(src.filename, subject, bundle, userID, src.fileType)
			// Savepoint keeps a lesson failure from poisoning the outer
			// transaction on drivers that abort after errors.
			if err := tx.Transaction(func(nested *gorm.DB) error {
				return s.lessons.WithTx(nested).Create(ctx, lesson)
			}); err != nil {
				s.log(ctx).WithError(err).Warn("Lesson synthesis failed, continuing without lesson")
			} else {
				lessonID = lesson.ID
			}
		}
		return nil
	})
	if err != nil {
		ctx = logger.SetStage(ctx, string(StageFailed))
		s.log(ctx).WithError(err).Error("Ingestion failed")
		return nil, err
	}

	ctx = logger.SetStage(ctx, string(StageCommitted))
	logger.With(logger.Fields{
		"flashcards": len(cardRows),
		"questions":  len(questionRows),
	}).WithDuration(time.Since(start).Milliseconds()).
		WithSize(len(text)).
		Info(ctx, "Ingestion committed")

	return &IngestResult{
		DocumentID:     doc.ID,
		ContentID:      content.ID,
		LessonID:       lessonID,
		Summary:        bundle.Summary,
		KeyConcepts:    bundle.KeyConcepts,
		FlashcardCount: len(cardRows),
		QuestionCount:  len(questionRows),
	}, nil
}

// saveTemp writes the upload to the configured temp directory.
func (s *IngestService) saveTemp(r io.Reader, filename string) (string, error) {
	dir := s.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(dir, "edumorph-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// asExtractionError wraps extractor failures that are not already typed.
func asExtractionError(src *ingestSource, err error) error {
	var extractionErr *domain.ExtractionError
	if errors.As(err, &extractionErr) {
		return err
	}

	source := src.sourceURL
	if source == "" {
		source = src.filename
	}
	return domain.NewExtractionError(source, err)
}

// buildFlashcards turns drafts into rows attached to the owner.
func buildFlashcards(owner domain.Owner, drafts []FlashcardDraft, now time.Time) []*domain.Flashcard {
	rows := make([]*domain.Flashcard, 0, len(drafts))
	for _, draft := range drafts {
		card := domain.NewFlashcard(owner, draft.Term, draft.Definition)
		card.ID = uuid.New().String()
		card.Context = draft.Context
		card.Example = draft.Example
		card.CreatedAt = now
		rows = append(rows, card)
	}
	return rows
}

// buildQuestions turns drafts into rows attached to the owner.
func buildQuestions(owner domain.Owner, drafts []QuestionDraft, now time.Time) []*domain.Question {
	rows := make([]*domain.Question, 0, len(drafts))
	for _, draft := range drafts {
		q := domain.NewQuestion(owner, draft.Question, draft.Answer, questionType(draft.Type))
		q.ID = uuid.New().String()
		q.CreatedAt = now
		rows = append(rows, q)
	}
	return rows
}

// questionType maps a draft type onto a known question type.
func questionType(t string) domain.QuestionType {
	switch qt := domain.QuestionType(t); qt {
	case domain.QuestionMultipleChoice, domain.QuestionTrueFalse, domain.QuestionEssay:
		return qt
	default:
		return domain.QuestionMultipleChoice
	}
}

// lessonFromBundle synthesizes the published lesson row for a document.
func lessonFromBundle(filename, subject string, bundle *StudyBundle, userID, fileType string) *domain.Lesson {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	if len(title) > 200 {
		title = title[:200]
	}
	description := bundle.Summary
	if len(description) > 500 {
		description = description[:500]
	}

	now := time.Now()
	return &domain.Lesson{
		ID:             uuid.New().String(),
		Title:          title,
		Description:    description,
		Topic:          titleCaser.String(subject),
		Subject:        subject,
		FormatType:     lessonFormat(fileType),
		AISummary:      bundle.Summary,
		KeyPoints:      domain.StringArray(bundle.KeyConcepts),
		AgeGroupTarget: domain.AgeGroupTeens,
		TeacherID:      userID,
		Tags:           domain.StringArray{},
		IsPublished:    true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// lessonFormat maps a document file type onto a lesson content format.
func lessonFormat(fileType string) domain.ContentFormat {
	switch fileType {
	case "pdf":
		return domain.FormatPDF
	case "docx":
		return domain.FormatDocx
	default:
		return domain.FormatText
	}
}
