package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/go-resty/resty/v2"
)

// HuggingFaceBackend generates study bundles through the hosted inference
// API of a summarization model. The model provides the summary; concepts
// and notes come from the same heuristics as the offline backend.
type HuggingFaceBackend struct {
	client   *resty.Client
	model    string
	apiKey   string
	endpoint string
}

// NewHuggingFaceBackend creates a Hugging Face inference backend.
// Parameters:
//   - cfg: provider configuration including model, API key, and base URL.
//
// Returns:
//   - *HuggingFaceBackend: backend instance.
func NewHuggingFaceBackend(cfg *config.LLMConfig) *HuggingFaceBackend {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(cfg.Timeout())

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	endpoint := baseURL + "/models/" + cfg.Model

	return &HuggingFaceBackend{
		client:   client,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
	}
}

// Name identifies the backend in logs.
func (b *HuggingFaceBackend) Name() string { return "huggingface" }

// Available reports whether the backend has credentials.
func (b *HuggingFaceBackend) Available() bool { return b.apiKey != "" }

type hfSummarizationRequest struct {
	Inputs string `json:"inputs"`
}

type hfSummaryResult struct {
	SummaryText string `json:"summary_text"`
}

// GenerateBundle summarizes the text through the inference API and fills
// in concepts and notes heuristically.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - subject: academic subject of the source material.
//   - text: extracted text to summarize.
//
// Returns:
//   - *StudyBundle: bundle with the hosted summary.
//   - error: non-nil if the API request fails or returns no summary.
func (b *HuggingFaceBackend) GenerateBundle(ctx context.Context, subject, text string) (*StudyBundle, error) {
	var results []hfSummaryResult
	httpResp, err := b.client.R().
		SetContext(ctx).
		SetBody(hfSummarizationRequest{Inputs: truncateForPrompt(text)}).
		SetResult(&results).
		Post(b.endpoint)

	if err != nil {
		return nil, fmt.Errorf("failed to call Hugging Face API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		return nil, fmt.Errorf("Hugging Face API returned error: HTTP %d: %s",
			httpResp.StatusCode(), string(httpResp.Body()))
	}

	if len(results) == 0 || strings.TrimSpace(results[0].SummaryText) == "" {
		return nil, fmt.Errorf("no summary from Hugging Face API (model %s)", b.model)
	}

	summary := strings.TrimSpace(results[0].SummaryText)

	concepts := heuristicKeyConcepts(text)
	if len(concepts) > 5 {
		concepts = concepts[:5]
	}
	notes := renderStudyNotes(subject, summary, concepts)
	if len(concepts) == 0 {
		concepts = placeholderConcepts(subject)
	}

	return &StudyBundle{
		Summary:     summary,
		KeyConcepts: concepts,
		Notes:       notes,
	}, nil
}
