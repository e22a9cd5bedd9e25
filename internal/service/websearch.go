package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/logger"
	"github.com/go-resty/resty/v2"
)

// SearchResult is one hit returned by a web search provider.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearchService finds educational resources on the web. Providers are
// tried in order: SerpAPI, then Google Custom Search, then a placeholder
// result so the caller always has something to show.
type WebSearchService struct {
	client     *resty.Client
	serpKey    string
	serpBase   string
	googleKey  string
	googleCX   string
	googleBase string
	maxResults int
	logger     *logger.Logger
}

// NewWebSearchService creates the search service from configuration.
// Parameters:
//   - cfg: search configuration with provider credentials and limits.
//   - log: logger for provider fallback events.
//
// Returns:
//   - *WebSearchService: initialized service.
func NewWebSearchService(cfg *config.SearchConfig, log *logger.Logger) *WebSearchService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)

	serpBase := cfg.SerpAPI.BaseURL
	if serpBase == "" {
		serpBase = "https://serpapi.com"
	}
	googleBase := cfg.Google.BaseURL
	if googleBase == "" {
		googleBase = "https://www.googleapis.com"
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &WebSearchService{
		client:     client,
		serpKey:    cfg.SerpAPI.APIKey,
		serpBase:   serpBase,
		googleKey:  cfg.Google.APIKey,
		googleCX:   cfg.Google.EngineID,
		googleBase: googleBase,
		maxResults: maxResults,
		logger:     log,
	}
}

// log returns a logger from context if available, otherwise the service's own.
func (s *WebSearchService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Search runs the provider chain for the query. Never returns an error:
// with no providers configured or all failing, a single placeholder result
// is returned. SerpAPI must produce hits to end the chain; a successful
// Google CSE response ends it even when empty.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - query: search terms.
//   - maxResults: cap on hits; non-positive uses the configured default.
//
// Returns:
//   - []SearchResult: provider hits, or one placeholder when nothing answered.
func (s *WebSearchService) Search(ctx context.Context, query string, maxResults int) []SearchResult {
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	if s.serpKey != "" {
		results, err := s.searchSerpAPI(ctx, query, maxResults)
		if err != nil {
			s.log(ctx).WithError(err).Warn("SerpAPI search failed, trying next provider")
		} else if len(results) > 0 {
			logger.With(logger.Fields{"backend": "serpapi"}).
				WithCount(len(results)).Info(ctx, "Web search completed")
			return results
		}
	}

	if s.googleKey != "" && s.googleCX != "" {
		results, err := s.searchGoogleCSE(ctx, query, maxResults)
		if err != nil {
			s.log(ctx).WithError(err).Warn("Google CSE search failed, using placeholder")
		} else {
			logger.With(logger.Fields{"backend": "google_cse"}).
				WithCount(len(results)).Info(ctx, "Web search completed")
			return results
		}
	}

	return []SearchResult{placeholderResult(query)}
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (s *WebSearchService) searchSerpAPI(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	var resp serpAPIResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":  "google",
			"q":       query,
			"num":     strconv.Itoa(maxResults),
			"api_key": s.serpKey,
		}).
		SetResult(&resp).
		Get(s.serpBase + "/search.json")
	if err != nil {
		return nil, err
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("serpapi returned status %d", httpResp.StatusCode())
	}

	organic := resp.OrganicResults
	if len(organic) > maxResults {
		organic = organic[:maxResults]
	}

	results := make([]SearchResult, 0, len(organic))
	for _, item := range organic {
		results = append(results, SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

type googleCSEResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (s *WebSearchService) searchGoogleCSE(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	var resp googleCSEResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key": s.googleKey,
			"cx":  s.googleCX,
			"q":   query,
			"num": strconv.Itoa(maxResults),
		}).
		SetResult(&resp).
		Get(s.googleBase + "/customsearch/v1")
	if err != nil {
		return nil, err
	}
	if httpResp.IsError() {
		return nil, fmt.Errorf("google cse returned status %d", httpResp.StatusCode())
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// placeholderResult is what the user sees with no search provider configured.
func placeholderResult(query string) SearchResult {
	return SearchResult{
		Title:   "Educational Resource: " + query,
		URL:     "https://example.com/education/" + strings.ReplaceAll(query, " ", "-"),
		Snippet: "Comprehensive educational content about " + query + "...",
	}
}
