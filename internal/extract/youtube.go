package extract

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/edumorph/edumorph/internal/config"
	"github.com/edumorph/edumorph/internal/domain"
	"github.com/go-resty/resty/v2"
)

// YouTubeClient fetches caption transcripts via the timedtext API and falls
// back to oEmbed metadata for videos without captions.
type YouTubeClient struct {
	client       *resty.Client
	timedTextURL string
	oembedURL    string
}

// NewYouTubeClient creates a caption/metadata client.
// Parameters:
//   - cfg: YouTube endpoints and timeout; nil uses production defaults.
// Returns:
//   - *YouTubeClient: initialized client.
func NewYouTubeClient(cfg *config.YouTubeConfig) *YouTubeClient {
	if cfg == nil {
		cfg = &config.YouTubeConfig{}
	}

	timedText := cfg.TimedTextBaseURL
	if timedText == "" {
		timedText = "https://video.google.com"
	}
	oembed := cfg.OEmbedBaseURL
	if oembed == "" {
		oembed = "https://www.youtube.com"
	}

	return &YouTubeClient{
		client:       resty.New().SetTimeout(timeoutSeconds(cfg.TimeoutSeconds, 10)),
		timedTextURL: timedText,
		oembedURL:    oembed,
	}
}

// VideoID extracts the video ID from the common YouTube URL shapes:
// watch?v=, youtu.be/, embed/, and shorts/.
// Parameters:
//   - videoURL: full YouTube URL.
// Returns:
//   - string: video ID.
//   - error: non-nil if no ID can be recognized.
func VideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("invalid YouTube URL: %w", err)
	}

	if strings.HasSuffix(u.Host, "youtu.be") {
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, nil
		}
	}

	if id := u.Query().Get("v"); id != "" {
		return id, nil
	}

	for _, prefix := range []string{"/embed/", "/shorts/"} {
		if strings.HasPrefix(u.Path, prefix) {
			if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
				return id, nil
			}
		}
	}

	return "", fmt.Errorf("no video ID found in URL %q", videoURL)
}

// Transcript returns the caption text of a video, preferring a
// manually-authored English track over an auto-generated one. Videos with
// no usable track fall back to a "Title/Description" stub built from
// oEmbed metadata.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - videoURL: full YouTube URL.
// Returns:
//   - string: transcript or metadata stub.
//   - error: non-nil if neither captions nor metadata could be fetched.
func (c *YouTubeClient) Transcript(ctx context.Context, videoURL string) (string, error) {
	id, err := VideoID(videoURL)
	if err != nil {
		return "", domain.NewExtractionError(videoURL, err)
	}

	text, capErr := c.fetchCaptions(ctx, id)
	if capErr == nil && text != "" {
		return text, nil
	}

	stub, metaErr := c.fetchMetadataStub(ctx, videoURL)
	if metaErr != nil {
		if capErr == nil {
			capErr = errors.New("video has no caption tracks")
		}
		return "", domain.NewExtractionError(videoURL, errors.Join(capErr, metaErr))
	}
	return stub, nil
}

// captionTrack is one entry of the timedtext track listing.
type captionTrack struct {
	LangCode string `xml:"lang_code,attr"`
	Name     string `xml:"name,attr"`
	Kind     string `xml:"kind,attr"`
}

type trackList struct {
	Tracks []captionTrack `xml:"track"`
}

type transcriptDoc struct {
	Lines []struct {
		Text string `xml:",chardata"`
	} `xml:"text"`
}

// fetchCaptions lists the available tracks and downloads the best English
// one. Returns empty text without error when no English track exists.
func (c *YouTubeClient) fetchCaptions(ctx context.Context, videoID string) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"type": "list", "v": videoID}).
		Get(c.timedTextURL + "/timedtext")
	if err != nil {
		return "", fmt.Errorf("failed to list caption tracks: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("caption track listing returned status %d", resp.StatusCode())
	}

	var list trackList
	if err := xml.Unmarshal(resp.Body(), &list); err != nil {
		return "", fmt.Errorf("failed to parse caption track listing: %w", err)
	}

	track, ok := pickEnglishTrack(list.Tracks)
	if !ok {
		return "", nil
	}

	params := map[string]string{"lang": track.LangCode, "v": videoID}
	if track.Kind != "" {
		params["kind"] = track.Kind
	}
	if track.Name != "" {
		params["name"] = track.Name
	}

	resp, err = c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.timedTextURL + "/timedtext")
	if err != nil {
		return "", fmt.Errorf("failed to fetch transcript: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("transcript fetch returned status %d", resp.StatusCode())
	}

	var doc transcriptDoc
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return "", fmt.Errorf("failed to parse transcript: %w", err)
	}

	var parts []string
	for _, line := range doc.Lines {
		// Caption text is often double-escaped (&amp;#39;)
		t := strings.TrimSpace(html.UnescapeString(line.Text))
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " "), nil
}

// pickEnglishTrack selects an English caption track, preferring
// manually-authored tracks (no kind attribute) over auto-generated ones
// (kind="asr").
func pickEnglishTrack(tracks []captionTrack) (captionTrack, bool) {
	var auto captionTrack
	var autoFound bool

	for _, t := range tracks {
		if !strings.HasPrefix(t.LangCode, "en") {
			continue
		}
		if t.Kind == "" {
			return t, true
		}
		if !autoFound {
			auto = t
			autoFound = true
		}
	}
	return auto, autoFound
}

// oembedResponse is the subset of the oEmbed payload we read.
type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// fetchMetadataStub builds a minimal text stand-in from oEmbed metadata for
// videos without captions.
func (c *YouTubeClient) fetchMetadataStub(ctx context.Context, videoURL string) (string, error) {
	var meta oembedResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"url": videoURL, "format": "json"}).
		SetResult(&meta).
		Get(c.oembedURL + "/oembed")
	if err != nil {
		return "", fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("video metadata fetch returned status %d", resp.StatusCode())
	}
	if meta.Title == "" {
		return "", errors.New("video metadata has no title")
	}

	description := "No transcript available for this video."
	if meta.AuthorName != "" {
		description = fmt.Sprintf("Video by %s. %s", meta.AuthorName, description)
	}
	return fmt.Sprintf("Title: %s\n\nDescription: %s", meta.Title, description), nil
}
