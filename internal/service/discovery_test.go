package service

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// longArticle strips to well over the capture threshold.
const longArticle = "<html><body><h1>Volcanoes</h1>" +
	"<p>Volcanoes form where magma from the planet's interior reaches the surface. " +
	"Eruptions build mountains over thousands of years and reshape the landscape around them. " +
	"The Pacific Ring of Fire hosts most of the world's active volcanoes.</p></body></html>"

// docxBytes builds a minimal DOCX archive holding the given paragraph.
func docxBytes(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create archive entry: %v", err)
	}
	fmt.Fprintf(f, `<?xml version="1.0"?>`+
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
		`<w:body><w:p><w:r><w:t>%s</w:t></w:r></w:p></w:body></w:document>`, text)
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}

// serpHits renders a SerpAPI response from prepared hits.
func serpHits(hits []SearchResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organic := make([]map[string]string, 0, len(hits))
		for _, h := range hits {
			organic = append(organic, map[string]string{
				"title":   h.Title,
				"link":    h.URL,
				"snippet": h.Snippet,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"organic_results": organic})
	}
}

// newTestDiscovery wires a discovery service whose search chain returns the
// given hits.
func newTestDiscovery(t *testing.T, db *gorm.DB, hits []SearchResult) *DiscoveryService {
	t.Helper()

	serp := httptest.NewServer(serpHits(hits))
	t.Cleanup(serp.Close)

	search := &WebSearchService{
		client:     resty.New(),
		serpKey:    "serp-key",
		serpBase:   serp.URL,
		maxResults: 10,
		logger:     testLogger(),
	}

	return NewDiscoveryService(
		db,
		search,
		newTestIngest(t, db, nil),
		extract.NewService(&config.ExtractConfig{}),
		repository.NewDocumentRepository(db),
		repository.NewContentRepository(db),
		testLogger(),
	)
}

func TestDiscoverAndIngest_CapturesWebpage(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(longArticle))
	}))
	defer pages.Close()

	db := testDB(t)
	articleURL := pages.URL + "/volcanoes"
	svc := newTestDiscovery(t, db, []SearchResult{
		{Title: "Volcano Guide", URL: articleURL, Snippet: "about volcanoes"},
	})
	ctx := testCtx()

	report, err := svc.DiscoverAndIngest(ctx, "volcanoes", "science", "student-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Processed != 1 || report.Skipped != 0 {
		t.Fatalf("expected 1 processed and 0 skipped, got %d and %d", report.Processed, report.Skipped)
	}
	result := report.Results[0]
	if result.ContentID == "" {
		t.Error("captured pages must store content")
	}
	if result.LessonID != "" {
		t.Error("captured pages must not synthesize lessons")
	}
	if result.Snippet == "" {
		t.Error("expected a text snippet in the result")
	}

	doc, err := repository.NewDocumentRepository(db).GetBySourceURL(ctx, articleURL)
	if err != nil {
		t.Fatalf("captured document not found by source URL: %v", err)
	}
	if doc.FileType != "html" {
		t.Errorf("unexpected file type %q", doc.FileType)
	}

	content, err := repository.NewContentRepository(db).GetByID(ctx, result.ContentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content.Summary != "" || content.Notes != "" {
		t.Error("capture must not run generation; summary and notes stay empty")
	}
	if !strings.Contains(content.RawContent, "Ring of Fire") {
		t.Errorf("expected page text to be stored, got %q", content.RawContent)
	}
}

func TestDiscoverAndIngest_SkipsShortPages(t *testing.T) {
	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Redirecting...</body></html>"))
	}))
	defer pages.Close()

	db := testDB(t)
	svc := newTestDiscovery(t, db, []SearchResult{
		{Title: "Stub", URL: pages.URL + "/stub"},
	})

	report, err := svc.DiscoverAndIngest(testCtx(), "volcanoes", "science", "student-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Processed != 0 || report.Skipped != 1 {
		t.Errorf("expected the short page to be skipped, got %d processed and %d skipped",
			report.Processed, report.Skipped)
	}

	count, _ := repository.NewDocumentRepository(db).Count(testCtx())
	if count != 0 {
		t.Errorf("skipped pages must not be persisted, got %d documents", count)
	}
}

func TestDiscoverAndIngest_SkipsKnownURLs(t *testing.T) {
	db := testDB(t)
	ctx := testCtx()
	knownURL := "https://example.org/known-article"

	documents := repository.NewDocumentRepository(db)
	err := documents.Create(ctx, &domain.Document{
		ID:        "doc-1",
		Filename:  "known.html",
		FileType:  "html",
		SourceURL: knownURL,
		Processed: true,
	})
	if err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}

	svc := newTestDiscovery(t, db, []SearchResult{
		{Title: "Known", URL: knownURL},
	})

	report, err := svc.DiscoverAndIngest(ctx, "volcanoes", "science", "student-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Processed != 0 || report.Skipped != 1 {
		t.Errorf("expected the known URL to be skipped, got %d processed and %d skipped",
			report.Processed, report.Skipped)
	}

	count, _ := documents.Count(ctx)
	if count != 1 {
		t.Errorf("expected no new documents, got %d", count)
	}
}

func TestDiscoverAndIngest_DownloadsDocuments(t *testing.T) {
	payload := docxBytes(t, sampleText)
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Write(payload)
	}))
	defer files.Close()

	db := testDB(t)
	docURL := files.URL + "/renaissance.docx"
	svc := newTestDiscovery(t, db, []SearchResult{
		{Title: "Renaissance Paper", URL: docURL},
	})
	ctx := testCtx()

	report, err := svc.DiscoverAndIngest(ctx, "renaissance", "history", "student-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Processed != 1 {
		t.Fatalf("expected the document to be processed, got %+v", report)
	}
	result := report.Results[0]
	if result.LessonID == "" {
		t.Error("downloaded documents go through the full pipeline and synthesize a lesson")
	}

	doc, err := repository.NewDocumentRepository(db).GetBySourceURL(ctx, docURL)
	if err != nil {
		t.Fatalf("downloaded document not found by source URL: %v", err)
	}
	if doc.FileType != "docx" {
		t.Errorf("unexpected file type %q", doc.FileType)
	}
	if doc.Filename != "renaissance.docx" {
		t.Errorf("expected filename from the URL path, got %q", doc.Filename)
	}
}

func TestDiscoverAndIngest_SkipsHitsWithoutURL(t *testing.T) {
	db := testDB(t)
	svc := newTestDiscovery(t, db, []SearchResult{
		{Title: "No link here"},
	})

	report, err := svc.DiscoverAndIngest(testCtx(), "volcanoes", "science", "student-1", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Skipped != 1 {
		t.Errorf("expected the linkless hit to be skipped, got %+v", report)
	}
}

func TestDiscoverAndIngest_RequiresQuery(t *testing.T) {
	db := testDB(t)
	svc := newTestDiscovery(t, db, nil)

	for _, query := range []string{"", "   "} {
		_, err := svc.DiscoverAndIngest(testCtx(), query, "science", "student-1", 5)

		var validationErr *domain.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("DiscoverAndIngest(%q): expected validation error, got %v", query, err)
		}
	}
}

func TestIsDocumentURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://example.org/paper.pdf", true},
		{"https://example.org/paper.PDF", true},
		{"https://example.org/notes.docx", true},
		{"https://example.org/article", false},
		{"https://example.org/page.html", false},
	}

	for _, tt := range tests {
		if got := isDocumentURL(tt.url); got != tt.expected {
			t.Errorf("isDocumentURL(%q) = %v, want %v", tt.url, got, tt.expected)
		}
	}
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
		wantErr  bool
	}{
		{name: "file in path", url: "https://example.org/papers/intro.pdf", expected: "intro.pdf"},
		{name: "query string ignored", url: "https://example.org/intro.pdf?session=1", expected: "intro.pdf"},
		{name: "bare host", url: "https://example.org", wantErr: true},
		{name: "trailing slash", url: "https://example.org/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filenameFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSnippetOf(t *testing.T) {
	long := strings.Repeat("x", 300)
	if got := snippetOf(long); len(got) != snippetLength+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected truncated snippet with ellipsis, got %d chars", len(got))
	}
	if got := snippetOf("short"); got != "short" {
		t.Errorf("short text should pass through, got %q", got)
	}
}
