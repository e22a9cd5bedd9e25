package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/edumorph/edumorph/internal/domain"
	"github.com/edumorph/edumorph/internal/extract"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/edumorph/edumorph/internal/repository"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// downloadTimeout bounds document downloads during discovery.
	downloadTimeout = 15 * time.Second

	// minCaptureChars is the smallest page text worth capturing. Shorter
	// pages are usually bot walls or redirect stubs.
	minCaptureChars = 100

	snippetLength = 200
)

// ProcessedResult reports one search hit turned into stored content.
type ProcessedResult struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	ContentID string `json:"content_id,omitempty"`
	LessonID  string `json:"lesson_id,omitempty"`
	Snippet   string `json:"snippet"`
}

// DiscoveryReport summarizes one discovery run.
type DiscoveryReport struct {
	Query     string            `json:"query"`
	Results   []ProcessedResult `json:"results"`
	Processed int               `json:"processed"`
	Skipped   int               `json:"skipped"`
}

// DiscoveryService finds educational material on the web and pulls it into
// the library. Document hits (PDF, DOCX) go through the full ingestion
// pipeline; plain webpage hits are captured raw without generation. Failures
// on individual hits are logged and skipped, never fatal.
type DiscoveryService struct {
	search    *WebSearchService
	ingest    *IngestService
	extractor *extract.Service
	documents *repository.DocumentRepository
	contents  *repository.ContentRepository
	db        *gorm.DB
	client    *resty.Client
	logger    *logger.Logger
}

// NewDiscoveryService creates the web discovery service.
// Parameters:
//   - db: GORM handle for webpage capture transactions.
//   - search: web search backend chain.
//   - ingest: ingestion orchestrator for downloaded documents.
//   - extractor: webpage fetcher for plain hits.
//   - documents, contents: entity repositories.
//   - log: logger for discovery events.
//
// Returns:
//   - *DiscoveryService: initialized service.
func NewDiscoveryService(
	db *gorm.DB,
	search *WebSearchService,
	ingest *IngestService,
	extractor *extract.Service,
	documents *repository.DocumentRepository,
	contents *repository.ContentRepository,
	log *logger.Logger,
) *DiscoveryService {
	return &DiscoveryService{
		search:    search,
		ingest:    ingest,
		extractor: extractor,
		documents: documents,
		contents:  contents,
		db:        db,
		client: resty.New().
			SetTimeout(downloadTimeout).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)),
		logger: log,
	}
}

// log returns a logger from context if available, otherwise the service's own.
func (s *DiscoveryService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// DiscoverAndIngest searches the web for the query and stores what it finds.
// URLs already in the library are skipped. Per-result failures are logged and
// skipped; only an invalid query is an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - query: search query; required.
//   - subject: academic subject for stored material; empty means "general".
//   - userID: owning user.
//   - maxResults: search hit cap; non-positive uses the configured default.
//
// Returns:
//   - *DiscoveryReport: per-hit outcomes and counts.
//   - error: validation error for a missing query.
func (s *DiscoveryService) DiscoverAndIngest(ctx context.Context, query, subject, userID string, maxResults int) (*DiscoveryReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("search query is required")
	}
	if subject == "" {
		subject = "general"
	}

	start := time.Now()
	ctx = logger.SetSource(ctx, "discovery")
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldSubject: subject,
		logger.FieldUserID:  userID,
	})

	hits := s.search.Search(ctx, query, maxResults)
	report := &DiscoveryReport{Query: query, Results: make([]ProcessedResult, 0, len(hits))}

	for _, hit := range hits {
		if hit.URL == "" {
			report.Skipped++
			continue
		}
		hitCtx := logger.WithFields(ctx, logger.Fields{"url": hit.URL})

		exists, err := s.documents.ExistsBySourceURL(hitCtx, hit.URL)
		if err != nil {
			s.log(hitCtx).WithError(err).Warn("Failed to check for existing document, skipping result")
			report.Skipped++
			continue
		}
		if exists {
			s.log(hitCtx).Debug("URL already in library, skipping result")
			report.Skipped++
			continue
		}

		var processed *ProcessedResult
		if isDocumentURL(hit.URL) {
			processed, err = s.ingestDownload(hitCtx, hit, subject, userID)
		} else {
			processed, err = s.captureWebpage(hitCtx, hit, subject, userID)
		}
		if err != nil {
			s.log(hitCtx).WithError(err).Warn("Failed to process web result, skipping")
			report.Skipped++
			continue
		}

		report.Results = append(report.Results, *processed)
		report.Processed++
	}

	logger.With(logger.Fields{
		"query":     query,
		"processed": report.Processed,
		"skipped":   report.Skipped,
	}).WithDuration(time.Since(start).Milliseconds()).
		Info(ctx, "Web discovery completed")

	return report, nil
}

// ingestDownload fetches a document hit and runs it through the full
// ingestion pipeline, lesson synthesis included.
func (s *DiscoveryService) ingestDownload(ctx context.Context, hit SearchResult, subject, userID string) (*ProcessedResult, error) {
	resp, err := s.client.R().SetContext(ctx).Get(hit.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("document download returned status %d", resp.StatusCode())
	}

	filename, err := filenameFromURL(hit.URL)
	if err != nil {
		return nil, err
	}

	result, err := s.ingest.IngestDownload(ctx, bytes.NewReader(resp.Body()), filename, hit.URL, subject, userID)
	if err != nil {
		return nil, err
	}

	return &ProcessedResult{
		Title:     hit.Title,
		URL:       hit.URL,
		ContentID: result.ContentID,
		LessonID:  result.LessonID,
		Snippet:   snippetOf(result.Summary),
	}, nil
}

// captureWebpage stores a plain webpage hit as raw content without running
// generation. The material becomes searchable later; study items are only
// built when someone ingests the page explicitly.
func (s *DiscoveryService) captureWebpage(ctx context.Context, hit SearchResult, subject, userID string) (*ProcessedResult, error) {
	text, err := s.extractor.FetchWebpage(ctx, hit.URL)
	if err != nil {
		return nil, err
	}
	if len(text) < minCaptureChars {
		return nil, fmt.Errorf("page text too short to capture (%d chars)", len(text))
	}

	title := hit.Title
	if len(title) > 50 {
		title = title[:50]
	}

	now := time.Now()
	doc := &domain.Document{
		ID:            uuid.New().String(),
		Filename:      fmt.Sprintf("web_%s.html", title),
		Subject:       subject,
		UserID:        userID,
		ContentLength: len(text),
		FileType:      "html",
		SourceURL:     hit.URL,
		Processed:     true,
		UploadedAt:    now,
	}
	content := &domain.Content{
		ID:          uuid.New().String(),
		DocumentID:  doc.ID,
		UserID:      userID,
		RawContent:  text,
		KeyConcepts: domain.StringArray{},
		CreatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.documents.WithTx(tx).Create(ctx, doc); err != nil {
			return domain.NewPersistenceError("create document", err)
		}
		if err := s.contents.WithTx(tx).Create(ctx, content); err != nil {
			return domain.NewPersistenceError("create content", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ProcessedResult{
		Title:     hit.Title,
		URL:       hit.URL,
		ContentID: content.ID,
		Snippet:   snippetOf(text),
	}, nil
}

// isDocumentURL reports whether the URL points at a downloadable document.
func isDocumentURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasSuffix(lower, ".pdf") || strings.HasSuffix(lower, ".docx")
}

// filenameFromURL derives a document filename from the URL path.
func filenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid document URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("no filename in URL %q", rawURL)
	}
	return name, nil
}

// snippetOf truncates text for a result preview.
func snippetOf(text string) string {
	if len(text) > snippetLength {
		return text[:snippetLength] + "..."
	}
	return text
}
