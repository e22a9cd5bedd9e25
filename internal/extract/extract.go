// Package extract turns ingestion sources (uploaded documents, raw text,
// webpages, YouTube videos) into plain text for the generation pipeline.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Format identifies a supported source format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatDocx     Format = "docx"
	FormatTxt      Format = "txt"
	FormatMarkdown Format = "md"
	FormatPPT      Format = "ppt"
	FormatPPTX     Format = "pptx"
	FormatWebpage  Format = "webpage"
	FormatYouTube  Format = "youtube"
)

// PPTPlaceholder is stored verbatim for presentation uploads until slide
// parsing is supported.
const PPTPlaceholder = "PowerPoint content extraction not yet implemented. Please convert to PDF or DOCX."

// Artifact is the ephemeral handle to one ingestion source. It never
// outlives the request: uploaded bytes sit in a temp file that the
// orchestrator removes on every path, success or failure.
type Artifact struct {
	Path     string // local file path for uploaded documents
	URL      string // source URL for webpage and youtube artifacts
	Filename string // declared filename
	Format   Format
}

// FormatFromFilename maps a filename extension to a document format.
// Parameters:
//   - filename: declared filename, extension case-insensitive.
// Returns:
//   - Format: matching format.
//   - bool: false if the extension is not a supported document type.
func FormatFromFilename(filename string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "pdf":
		return FormatPDF, true
	case "docx":
		return FormatDocx, true
	case "txt":
		return FormatTxt, true
	case "md":
		return FormatMarkdown, true
	case "ppt":
		return FormatPPT, true
	case "pptx":
		return FormatPPTX, true
	}
	return "", false
}

// Service extracts plain text from every supported source format.
type Service struct {
	client  *resty.Client
	youtube *YouTubeClient
}

// NewService creates an extraction service with bounded HTTP clients for
// webpage and YouTube sources.
// Parameters:
//   - cfg: extraction configuration; nil uses library defaults.
// Returns:
//   - *Service: initialized service.
func NewService(cfg *config.ExtractConfig) *Service {
	if cfg == nil {
		cfg = &config.ExtractConfig{}
	}

	client := resty.New().
		SetTimeout(timeoutSeconds(cfg.Webpage.TimeoutSeconds, 10)).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	if cfg.Webpage.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.Webpage.UserAgent)
	}

	return &Service{
		client:  client,
		youtube: NewYouTubeClient(&cfg.YouTube),
	}
}

// Extract returns the plain text of the artifact.
// Unsupported formats yield domain.ErrUnsupportedFormat; any other failure
// is wrapped as a domain.ExtractionError. An empty result is not an error.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - artifact: source to read.
// Returns:
//   - string: extracted plain text, surrounding whitespace trimmed.
//   - error: non-nil if the source cannot be read.
func (s *Service) Extract(ctx context.Context, artifact *Artifact) (string, error) {
	switch artifact.Format {
	case FormatPDF:
		return extractPDF(artifact.Path)
	case FormatDocx:
		return extractDocx(artifact.Path)
	case FormatTxt, FormatMarkdown:
		return extractTextFile(artifact.Path)
	case FormatPPT, FormatPPTX:
		return PPTPlaceholder, nil
	case FormatWebpage:
		text, err := s.FetchWebpage(ctx, artifact.URL)
		if err != nil {
			return "", domain.NewExtractionError(artifact.URL, err)
		}
		return text, nil
	case FormatYouTube:
		return s.youtube.Transcript(ctx, artifact.URL)
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, string(artifact.Format))
}
