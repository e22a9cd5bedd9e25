package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/edumorph/edumorph/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestRouter assembles the full API over a throwaway database. No
// generation or search providers are configured, so every pipeline runs on
// its local fallbacks.
func newTestRouter(t *testing.T, maxUploadMB int) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	log := logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard, ServiceName: "test"})

	documents := repository.NewDocumentRepository(db)
	contents := repository.NewContentRepository(db)
	flashcards := repository.NewFlashcardRepository(db)
	questions := repository.NewQuestionRepository(db)
	lessons := repository.NewLessonRepository(db)

	extractor := extract.NewService(&config.ExtractConfig{})
	generator := service.NewContentGenerator(&config.Config{}, log)
	ingest := service.NewIngestService(db, documents, contents, flashcards, questions, lessons,
		extractor, generator, &config.IngestConfig{TempDir: t.TempDir()}, log)
	catalog := service.NewCatalogService(lessons, flashcards, questions, documents, contents, log)
	chat := service.NewChatService(nil, repository.NewChatRepository(db), &config.ChatConfig{}, log)
	search := service.NewWebSearchService(&config.SearchConfig{}, log)
	discovery := service.NewDiscoveryService(db, search, ingest, extractor, documents, contents, log)

	router := SetupRouter(Deps{
		DB:          db,
		Catalog:     catalog,
		Ingest:      ingest,
		Chat:        chat,
		Discovery:   discovery,
		Logger:      log,
		MaxUploadMB: maxUploadMB,
	}, config.ServerConfig{Mode: "test", CORS: config.CORSConfig{AllowAllOrigins: true}})
	return router, db
}

// doJSON performs one request and decodes the JSON response body.
func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	decoded := map[string]interface{}{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
		}
	}
	return w, decoded
}

func seedPublishedLesson(t *testing.T, db *gorm.DB, title string) string {
	t.Helper()

	id := uuid.New().String()
	err := repository.NewLessonRepository(db).Create(context.Background(), &domain.Lesson{
		ID: id, Title: title, Subject: "science", IsPublished: true,
	})
	if err != nil {
		t.Fatalf("failed to seed lesson: %v", err)
	}

	card := domain.NewFlashcard(domain.LessonOwner(id), "Term", "Definition")
	card.ID = uuid.New().String()
	if err := repository.NewFlashcardRepository(db).Create(context.Background(), card); err != nil {
		t.Fatalf("failed to seed flashcard: %v", err)
	}
	return id
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w, body := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body["status"] != "ok" || body["database"] != "up" {
		t.Errorf("unexpected health payload %v", body)
	}
}

func TestLessonEndpoints(t *testing.T) {
	router, db := newTestRouter(t, 0)
	id := seedPublishedLesson(t, db, "Photosynthesis")

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/lessons", "")
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected a success envelope, got %d %v", w.Code, body)
	}
	lessons, ok := body["lessons"].([]interface{})
	if !ok || len(lessons) != 1 {
		t.Fatalf("expected one lesson, got %v", body["lessons"])
	}
	if _, ok := body["pagination"].(map[string]interface{}); !ok {
		t.Error("expected pagination metadata")
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/lessons/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	lesson := body["lesson"].(map[string]interface{})
	if lesson["title"] != "Photosynthesis" {
		t.Errorf("unexpected lesson %v", lesson)
	}
	if cards := body["flashcards"].([]interface{}); len(cards) != 1 {
		t.Errorf("expected the embedded flashcard, got %v", body["flashcards"])
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/lessons/"+id+"/flashcards", "")
	if w.Code != http.StatusOK || body["total"] != float64(1) {
		t.Errorf("expected one flashcard, got %d %v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/lessons/missing", "")
	if w.Code != http.StatusNotFound || body["error"] != "Lesson not found" {
		t.Errorf("expected the lesson 404 message, got %d %v", w.Code, body)
	}
}

func TestSearchAndStatsEndpoints(t *testing.T) {
	router, db := newTestRouter(t, 0)
	seedPublishedLesson(t, db, "Photosynthesis Basics")

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/search?q=Photosynthesis", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	results := body["results"].([]interface{})
	if len(results) != 1 {
		t.Fatalf("expected one hit, got %v", results)
	}
	hit := results[0].(map[string]interface{})
	if hit["relevance_score"] != float64(1.0) {
		t.Errorf("expected the placeholder relevance score, got %v", hit)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/search", "")
	if w.Code != http.StatusBadRequest || body["success"] != false {
		t.Errorf("expected a 400 for a missing query, got %d %v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	stats := body["stats"].(map[string]interface{})
	if stats["total_lessons"] != float64(1) {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestIngestTextEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	payload := `{"text": "The Water Cycle moves water through Evaporation and Condensation around the Planet.", "subject": "science", "user_id": "u1"}`
	w, body := doJSON(t, router, http.MethodPost, "/api/v1/ingest/text", payload)
	if w.Code != http.StatusCreated || body["success"] != true {
		t.Fatalf("expected 201, got %d %v", w.Code, body)
	}
	data := body["data"].(map[string]interface{})
	if data["document_id"] == "" || data["content_id"] == "" {
		t.Errorf("expected stored IDs in the result, got %v", data)
	}
	if data["flashcard_count"] == float64(0) {
		t.Errorf("expected generated flashcards, got %v", data)
	}

	w, body = doJSON(t, router, http.MethodPost, "/api/v1/ingest/text", `{"subject": "science"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected a 400 for a missing text field, got %d %v", w.Code, body)
	}
}

func TestIngestYouTubeEndpoint_RejectsNonYouTubeURL(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/ingest/youtube",
		`{"url": "https://vimeo.com/12345", "user_id": "u1"}`)
	if w.Code != http.StatusBadRequest || body["success"] != false {
		t.Errorf("expected a 400, got %d %v", w.Code, body)
	}
}

func TestUploadEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, 1)

	upload := func(filename string, content []byte) (*httptest.ResponseRecorder, map[string]interface{}) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to build form: %v", err)
		}
		part.Write(content)
		mw.WriteField("subject", "history")
		mw.WriteField("user_id", "u1")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/document", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		decoded := map[string]interface{}{}
		if w.Body.Len() > 0 {
			if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
				t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
			}
		}
		return w, decoded
	}

	w, body := upload("notes.txt", []byte("The Roman Empire expanded across Europe under powerful Emperors."))
	if w.Code != http.StatusCreated || body["success"] != true {
		t.Fatalf("expected 201, got %d %v", w.Code, body)
	}
	data := body["data"].(map[string]interface{})
	if data["lesson_id"] == nil || data["lesson_id"] == "" {
		t.Errorf("uploads must synthesize a lesson, got %v", data)
	}

	w, body = upload("big.txt", bytes.Repeat([]byte("x"), 2<<20))
	if w.Code != http.StatusBadRequest || !strings.Contains(body["error"].(string), "exceeds") {
		t.Errorf("expected the size limit to reject the file, got %d %v", w.Code, body)
	}

	w, body = upload("virus.exe", []byte("nope"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected a 400 for an unsupported file type, got %d %v", w.Code, body)
	}
}

func TestChatEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/chat",
		`{"message": "What is gravity?", "user_id": "u1"}`)
	if w.Code != http.StatusOK || body["success"] != true {
		t.Fatalf("expected 200, got %d %v", w.Code, body)
	}
	if body["response"] == "" {
		t.Error("expected a reply even without a configured model")
	}

	w, body = doJSON(t, router, http.MethodPost, "/api/v1/chat", `{"message": "no user"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected a 400 for a missing user, got %d %v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/chat/history?user_id=u1", "")
	if w.Code != http.StatusOK || body["total"] != float64(1) {
		t.Errorf("expected the stored exchange in history, got %d %v", w.Code, body)
	}
}

func TestDiscoveryEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/search/web", `{"subject": "science"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected a 400 for a missing query, got %d %v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/search/web/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := body["data"].(map[string]interface{})
	if data["is_running"] != false {
		t.Errorf("expected an idle discovery job, got %v", data)
	}
	if _, present := data["last_run_time"]; present {
		t.Errorf("expected no run history yet, got %v", data)
	}
}

func TestContentEndpoints(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/contents/missing", "")
	if w.Code != http.StatusNotFound || body["error"] != "Content not found" {
		t.Errorf("expected the content 404 message, got %d %v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/v1/documents", "")
	if w.Code != http.StatusOK || body["total"] != float64(0) {
		t.Errorf("expected an empty document list, got %d %v", w.Code, body)
	}
}

func TestNoRouteMessage(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/unknown", "")
	if w.Code != http.StatusNotFound || body["error"] != "API endpoint not found" {
		t.Errorf("expected the API 404 message, got %d %v", w.Code, body)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/lessons", nil)
	req.Header.Set("Origin", "https://studio.example.org")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected the wildcard origin, got %q", got)
	}
}
