package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
)

// serpResults renders a SerpAPI response with the given hit titles.
func serpResults(titles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organic := make([]map[string]string, 0, len(titles))
		for _, title := range titles {
			organic = append(organic, map[string]string{
				"title":   title,
				"link":    "https://example.org/" + title,
				"snippet": "about " + title,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"organic_results": organic})
	}
}

// cseResults renders a Google CSE response with the given hit titles.
func cseResults(titles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]string, 0, len(titles))
		for _, title := range titles {
			items = append(items, map[string]string{
				"title":   title,
				"link":    "https://example.org/" + title,
				"snippet": "about " + title,
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}
}

func TestWebSearch_SerpAPIServesFirst(t *testing.T) {
	serp := httptest.NewServer(serpResults("khan-academy", "openstax"))
	defer serp.Close()

	googleCalled := false
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		googleCalled = true
	}))
	defer google.Close()

	svc := &WebSearchService{
		client:     resty.New(),
		serpKey:    "serp-key",
		serpBase:   serp.URL,
		googleKey:  "google-key",
		googleCX:   "cx",
		googleBase: google.URL,
		maxResults: 5,
		logger:     testLogger(),
	}

	results := svc.Search(context.Background(), "algebra", 0)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Title != "khan-academy" {
		t.Errorf("unexpected first result %q", results[0].Title)
	}
	if googleCalled {
		t.Error("Google CSE should not be called when SerpAPI produced hits")
	}
}

func TestWebSearch_SerpAPIFailureFallsBackToCSE(t *testing.T) {
	serp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer serp.Close()

	google := httptest.NewServer(cseResults("wikipedia"))
	defer google.Close()

	svc := &WebSearchService{
		client:     resty.New(),
		serpKey:    "serp-key",
		serpBase:   serp.URL,
		googleKey:  "google-key",
		googleCX:   "cx",
		googleBase: google.URL,
		maxResults: 5,
		logger:     testLogger(),
	}

	results := svc.Search(context.Background(), "algebra", 0)

	if len(results) != 1 || results[0].Title != "wikipedia" {
		t.Errorf("expected the CSE hit, got %+v", results)
	}
}

func TestWebSearch_SerpAPIEmptyFallsThrough(t *testing.T) {
	serp := httptest.NewServer(serpResults())
	defer serp.Close()

	google := httptest.NewServer(cseResults("wikipedia"))
	defer google.Close()

	svc := &WebSearchService{
		client:     resty.New(),
		serpKey:    "serp-key",
		serpBase:   serp.URL,
		googleKey:  "google-key",
		googleCX:   "cx",
		googleBase: google.URL,
		maxResults: 5,
		logger:     testLogger(),
	}

	results := svc.Search(context.Background(), "algebra", 0)

	if len(results) != 1 || results[0].Title != "wikipedia" {
		t.Errorf("expected empty SerpAPI response to hand over to CSE, got %+v", results)
	}
}

func TestWebSearch_CSEEmptySuccessEndsChain(t *testing.T) {
	google := httptest.NewServer(cseResults())
	defer google.Close()

	svc := &WebSearchService{
		client:     resty.New(),
		googleKey:  "google-key",
		googleCX:   "cx",
		googleBase: google.URL,
		maxResults: 5,
		logger:     testLogger(),
	}

	results := svc.Search(context.Background(), "algebra", 0)

	if len(results) != 0 {
		t.Errorf("expected an empty CSE success to return no hits, got %+v", results)
	}
}

func TestWebSearch_PlaceholderWhenUnconfigured(t *testing.T) {
	svc := &WebSearchService{
		client:     resty.New(),
		maxResults: 5,
		logger:     testLogger(),
	}

	results := svc.Search(context.Background(), "ancient rome", 0)

	if len(results) != 1 {
		t.Fatalf("expected exactly one placeholder, got %d", len(results))
	}
	if !strings.Contains(results[0].Title, "ancient rome") {
		t.Errorf("placeholder title should carry the query, got %q", results[0].Title)
	}
	if !strings.Contains(results[0].URL, "ancient-rome") {
		t.Errorf("placeholder URL should slug the query, got %q", results[0].URL)
	}
}

func TestWebSearch_MaxResultsCapsSerpHits(t *testing.T) {
	serp := httptest.NewServer(serpResults("a", "b", "c", "d", "e"))
	defer serp.Close()

	svc := &WebSearchService{
		client:     resty.New(),
		serpKey:    "serp-key",
		serpBase:   serp.URL,
		maxResults: 5,
		logger:     testLogger(),
	}

	results := svc.Search(context.Background(), "algebra", 3)

	if len(results) != 3 {
		t.Errorf("expected the hit cap to apply, got %d results", len(results))
	}
}
