package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// FetchWebpage retrieves a page over HTTP and reduces its markup to
// whitespace-normalized text. Network failures and non-2xx statuses are
// returned as plain errors; callers decide whether that is fatal (document
// ingestion) or just a skipped result (web discovery).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - url: page URL to fetch.
// Returns:
//   - string: visible text with whitespace runs collapsed to single spaces.
//   - error: non-nil on network failure or error status.
func (s *Service) FetchWebpage(ctx context.Context, url string) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch webpage: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("webpage returned status %d", resp.StatusCode())
	}
	return StripHTML(resp.String()), nil
}

// StripHTML removes markup tags and collapses whitespace runs to single
// spaces. Only the tags are removed; contents of script and style blocks
// survive as text.
func StripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// timeoutSeconds converts a configured second count to a duration with a
// fallback default.
func timeoutSeconds(secs, def int) time.Duration {
	if secs <= 0 {
		return time.Duration(def) * time.Second
	}
	return time.Duration(secs) * time.Second
}
