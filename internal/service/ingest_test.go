package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/repository"
	"gorm.io/gorm"
)

// sampleText has enough capitalized long words for the heuristic backend to
// fill the concept cap, and opening sentences long enough for its summary.
const sampleText = "The Renaissance transformed European art and Culture. " +
	"Painters like Leonardo developed new techniques of Perspective. " +
	"Humanism placed individual Achievement at the center of intellectual life."

// newTestIngest wires an ingestion service against the test database with the
// heuristic-only generation chain.
func newTestIngest(t *testing.T, db *gorm.DB, cfg *config.IngestConfig) *IngestService {
	t.Helper()
	if cfg == nil {
		cfg = &config.IngestConfig{}
	}

	return NewIngestService(
		db,
		repository.NewDocumentRepository(db),
		repository.NewContentRepository(db),
		repository.NewFlashcardRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewLessonRepository(db),
		extract.NewService(&config.ExtractConfig{}),
		NewContentGenerator(&config.Config{}, testLogger()),
		cfg,
		testLogger(),
	)
}

func TestIngestText_FullPipeline(t *testing.T) {
	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	result, err := svc.IngestText(ctx, sampleText, "history", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.DocumentID == "" || result.ContentID == "" {
		t.Fatalf("expected document and content IDs, got %+v", result)
	}
	if result.LessonID != "" {
		t.Error("text ingestion must not synthesize a lesson")
	}
	if !strings.Contains(result.Summary, "Renaissance") {
		t.Errorf("expected heuristic summary from the opening sentences, got %q", result.Summary)
	}
	if result.FlashcardCount != 5 || result.QuestionCount != 3 {
		t.Errorf("expected 5 flashcards and 3 questions, got %d and %d",
			result.FlashcardCount, result.QuestionCount)
	}

	doc, err := repository.NewDocumentRepository(db).GetByID(ctx, result.DocumentID)
	if err != nil {
		t.Fatalf("document not persisted: %v", err)
	}
	if !doc.Processed {
		t.Error("committed documents must be marked processed")
	}
	if doc.FileType != "txt" {
		t.Errorf("unexpected file type %q", doc.FileType)
	}
	if !strings.HasPrefix(doc.Filename, "text_input_") {
		t.Errorf("unexpected generated filename %q", doc.Filename)
	}
	if doc.ContentLength != len(sampleText) {
		t.Errorf("content length: got %d, want %d", doc.ContentLength, len(sampleText))
	}

	content, err := repository.NewContentRepository(db).GetByID(ctx, result.ContentID)
	if err != nil {
		t.Fatalf("content not persisted: %v", err)
	}
	if content.RawContent != sampleText {
		t.Error("raw content must be stored verbatim")
	}
	if content.DocumentID != doc.ID {
		t.Error("content must reference its document")
	}
	if len(content.KeyConcepts) != 5 {
		t.Errorf("expected 5 key concepts, got %v", content.KeyConcepts)
	}

	owner := domain.ContentOwner(result.ContentID)
	cards, err := repository.NewFlashcardRepository(db).ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("expected 5 stored flashcards, got %d", len(cards))
	}
	if cards[0].LessonID != nil {
		t.Error("content-owned flashcards must not reference a lesson")
	}
	if !cards[0].AIGenerated {
		t.Error("pipeline flashcards must be marked AI-generated")
	}

	published, err := repository.NewLessonRepository(db).CountPublished(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published != 0 {
		t.Errorf("expected no lessons from text ingestion, got %d", published)
	}
}

func TestIngestText_Validation(t *testing.T) {
	svc := newTestIngest(t, testDB(t), nil)

	for _, text := range []string{"", "   \n\t "} {
		_, err := svc.IngestText(testCtx(), text, "history", "student-1")

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("IngestText(%q): expected validation error, got %v", text, err)
		}
	}
}

func TestIngestText_OfflineDeterministic(t *testing.T) {
	const text = "Photosynthesis converts light energy into chemical energy. " +
		"Plants use chlorophyll. The process occurs in chloroplasts."

	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	result, err := svc.IngestText(ctx, text, "biology", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := repository.NewContentRepository(db).GetByID(ctx, result.ContentID)
	if err != nil {
		t.Fatalf("content not persisted: %v", err)
	}
	if !strings.Contains(content.Summary, "Photosynthesis converts light energy into chemical energy") {
		t.Errorf("summary must carry the opening sentence, got %q", content.Summary)
	}
	if want := (domain.StringArray{"Photosynthesis", "Plants"}); !reflect.DeepEqual(content.KeyConcepts, want) {
		t.Errorf("key concepts: got %v, want %v", content.KeyConcepts, want)
	}

	cards, err := repository.NewFlashcardRepository(db).ListByOwner(ctx, domain.ContentOwner(result.ContentID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cards) == 0 || len(cards) > 5 {
		t.Fatalf("expected between 1 and 5 flashcards, got %d", len(cards))
	}
	for _, card := range cards {
		if card.Term == "" || card.Definition == "" {
			t.Errorf("flashcard missing term or definition: %+v", card)
		}
	}
}

func TestIngestFile_SynthesizesLesson(t *testing.T) {
	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	path := filepath.Join(t.TempDir(), "renaissance_notes.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	result, err := svc.IngestFile(ctx, path, "renaissance_notes.txt", "history", "teacher-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LessonID == "" {
		t.Fatal("file ingestion must synthesize a lesson")
	}

	lesson, err := repository.NewLessonRepository(db).GetPublishedByID(ctx, result.LessonID)
	if err != nil {
		t.Fatalf("lesson not published: %v", err)
	}
	if lesson.Title != "renaissance_notes" {
		t.Errorf("expected title from the filename stem, got %q", lesson.Title)
	}
	if lesson.Subject != "history" || lesson.Topic != "History" {
		t.Errorf("unexpected subject/topic %q/%q", lesson.Subject, lesson.Topic)
	}
	if lesson.FormatType != domain.FormatText {
		t.Errorf("unexpected format %q", lesson.FormatType)
	}
	if lesson.AgeGroupTarget != domain.AgeGroupTeens {
		t.Errorf("unexpected age group %q", lesson.AgeGroupTarget)
	}
	if lesson.TeacherID != "teacher-1" {
		t.Errorf("unexpected teacher %q", lesson.TeacherID)
	}
	if len(lesson.KeyPoints) != 5 {
		t.Errorf("expected key points from the bundle, got %v", lesson.KeyPoints)
	}

	// The caller keeps ownership of the file.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("source file must survive ingestion: %v", err)
	}
}

func TestIngestUpload_RemovesTempFile(t *testing.T) {
	db := testDB(t)
	tempDir := t.TempDir()
	svc := newTestIngest(t, db, &config.IngestConfig{TempDir: tempDir})
	ctx := testCtx()

	result, err := svc.IngestUpload(ctx, strings.NewReader(sampleText), "notes.txt", "science", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LessonID == "" {
		t.Error("upload ingestion must synthesize a lesson")
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected temp directory to be empty after commit, found %d entries", len(entries))
	}
}

func TestIngestUpload_UnsupportedFileType(t *testing.T) {
	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	_, err := svc.IngestUpload(ctx, strings.NewReader("MZ"), "archive.exe", "science", "student-1")

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(validationErr.Error(), "unsupported file type") {
		t.Errorf("unexpected message %q", validationErr.Error())
	}

	count, err := repository.NewDocumentRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected uploads must not be persisted, got %d documents", count)
	}
}

func TestIngestWebpage_FullPipeline(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><h1>Cell Biology</h1>" +
			"<p>The Mitochondria converts nutrients into usable Energy for the cell. " +
			"Every Organelle plays a specialized role in cellular Metabolism.</p></body></html>"))
	}))
	defer page.Close()

	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	result, err := svc.IngestWebpage(ctx, page.URL, "science", "student-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LessonID != "" {
		t.Error("webpage ingestion must not synthesize a lesson")
	}

	doc, err := repository.NewDocumentRepository(db).GetByID(ctx, result.DocumentID)
	if err != nil {
		t.Fatalf("document not persisted: %v", err)
	}
	if doc.FileType != "html" {
		t.Errorf("unexpected file type %q", doc.FileType)
	}
	if doc.SourceURL != page.URL {
		t.Errorf("source URL: got %q, want %q", doc.SourceURL, page.URL)
	}
	if !strings.HasPrefix(doc.Filename, "webpage_") {
		t.Errorf("unexpected generated filename %q", doc.Filename)
	}

	content, err := repository.NewContentRepository(db).GetByID(ctx, result.ContentID)
	if err != nil {
		t.Fatalf("content not persisted: %v", err)
	}
	if strings.Contains(content.RawContent, "<p>") {
		t.Error("stored webpage text must have markup stripped")
	}
	if !strings.Contains(content.RawContent, "Mitochondria") {
		t.Errorf("expected page text to survive extraction, got %q", content.RawContent)
	}
}

func TestIngestWebpage_Validation(t *testing.T) {
	svc := newTestIngest(t, testDB(t), nil)

	_, err := svc.IngestWebpage(testCtx(), "", "science", "student-1")

	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestIngestWebpage_FetchFailure(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer page.Close()

	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	_, err := svc.IngestWebpage(ctx, page.URL, "science", "student-1")

	var extractionErr *domain.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected extraction error for a 404 page, got %v", err)
	}

	count, err := repository.NewDocumentRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("failed fetches must not create documents, got %d", count)
	}
}

func TestIngestYouTube_RejectsNonYouTubeURL(t *testing.T) {
	svc := newTestIngest(t, testDB(t), nil)

	tests := []string{
		"",
		"https://vimeo.com/12345",
		"not a url at all",
	}

	for _, url := range tests {
		_, err := svc.IngestYouTube(testCtx(), url, "science", "student-1")

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("IngestYouTube(%q): expected validation error, got %v", url, err)
		}
	}
}

func TestIngest_RollsBackOnPersistenceFailure(t *testing.T) {
	db := testDB(t)
	svc := newTestIngest(t, db, nil)
	ctx := testCtx()

	// Make the questions insert fail mid-transaction.
	if err := db.Exec("DROP TABLE questions").Error; err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	_, err := svc.IngestText(ctx, sampleText, "history", "student-1")

	var persistenceErr *domain.PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if persistenceErr.Op != "create questions" {
		t.Errorf("unexpected failing operation %q", persistenceErr.Op)
	}

	docs, err := repository.NewDocumentRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs != 0 {
		t.Errorf("expected rollback to remove the document, got %d rows", docs)
	}
	cards, err := repository.NewFlashcardRepository(db).Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cards != 0 {
		t.Errorf("expected rollback to remove flashcards, got %d rows", cards)
	}
}

func TestQuestionTypeMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.QuestionType
	}{
		{"multiple_choice", domain.QuestionMultipleChoice},
		{"true_false", domain.QuestionTrueFalse},
		{"essay", domain.QuestionEssay},
		{"fill_blank", domain.QuestionMultipleChoice},
		{"", domain.QuestionMultipleChoice},
	}

	for _, tt := range tests {
		if got := questionType(tt.input); got != tt.expected {
			t.Errorf("questionType(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLessonFromBundle_Truncation(t *testing.T) {
	longName := strings.Repeat("a", 210) + ".txt"
	bundle := &StudyBundle{
		Summary:     strings.Repeat("s", 600),
		KeyConcepts: []string{"One", "Two"},
	}

	lesson := lessonFromBundle(longName, "math", bundle, "teacher-1", "txt")

	if len(lesson.Title) != 200 {
		t.Errorf("title: got %d chars, want 200", len(lesson.Title))
	}
	if len(lesson.Description) != 500 {
		t.Errorf("description: got %d chars, want 500", len(lesson.Description))
	}
	if len(lesson.AISummary) != 600 {
		t.Errorf("AI summary must not be truncated, got %d chars", len(lesson.AISummary))
	}
	if !lesson.IsPublished {
		t.Error("synthesized lessons must be published")
	}
}

func TestLessonFormat(t *testing.T) {
	tests := []struct {
		fileType string
		expected domain.ContentFormat
	}{
		{"pdf", domain.FormatPDF},
		{"docx", domain.FormatDocx},
		{"txt", domain.FormatText},
		{"html", domain.FormatText},
	}

	for _, tt := range tests {
		if got := lessonFormat(tt.fileType); got != tt.expected {
			t.Errorf("lessonFormat(%q) = %q, want %q", tt.fileType, got, tt.expected)
		}
	}
}
