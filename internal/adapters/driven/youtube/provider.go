// Package youtube implements the VideoProvider port by scraping the watch
// page. Metadata comes from the embedded player response JSON, so no API
// key is needed.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Ensure Provider implements the port
var _ driven.VideoProvider = (*Provider)(nil)

const (
	defaultBaseURL = "https://www.youtube.com"

	// A browser user agent keeps the watch page serving the full player
	// response.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Provider resolves video metadata and audio streams from watch pages.
type Provider struct {
	baseURL string
	client  *http.Client

	// downloadClient has no overall timeout. Audio downloads for long
	// videos exceed any fixed request deadline; cancellation goes through
	// the context.
	downloadClient *http.Client
}

// NewProvider creates a watch-page video provider.
func NewProvider(baseURL string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Provider{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		downloadClient: &http.Client{},
	}
}

// videoDetails is the slice of the player response describing the video.
type videoDetails struct {
	VideoID          string `json:"videoId"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	ShortDescription string `json:"shortDescription"`
	LengthSeconds    string `json:"lengthSeconds"`
}

// streamingData lists the playable formats for a video.
type streamingData struct {
	AdaptiveFormats []struct {
		Itag     int    `json:"itag"`
		MimeType string `json:"mimeType"`
		URL      string `json:"url"`
	} `json:"adaptiveFormats"`
}

// Lookup fetches the watch page and extracts video metadata.
func (p *Provider) Lookup(ctx context.Context, videoURL string) (*driven.VideoMetadata, error) {
	videoID := domain.ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, fmt.Errorf("no video ID in %q: %w", videoURL, domain.ErrVideoUnavailable)
	}

	page, err := p.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	detailsJSON, err := extractObject(page, `"videoDetails":`)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoID, domain.ErrVideoUnavailable)
	}

	var details videoDetails
	if err := json.Unmarshal(detailsJSON, &details); err != nil {
		return nil, fmt.Errorf("failed to parse video details: %w", err)
	}

	if details.VideoID == "" {
		return nil, fmt.Errorf("video %s: %w", videoID, domain.ErrVideoUnavailable)
	}

	duration, _ := strconv.Atoi(details.LengthSeconds)

	meta := &driven.VideoMetadata{
		VideoID:      details.VideoID,
		URL:          videoURL,
		Title:        details.Title,
		ChannelTitle: details.Author,
		Description:  details.ShortDescription,
		Duration:     duration,
		PublishedAt:  extractPublishDate(page),
	}

	return meta, nil
}

// DownloadAudio streams the first audio-only format of the video.
func (p *Provider) DownloadAudio(ctx context.Context, videoURL string) (io.ReadCloser, error) {
	videoID := domain.ExtractVideoID(videoURL)
	if videoID == "" {
		return nil, fmt.Errorf("no video ID in %q: %w", videoURL, domain.ErrVideoUnavailable)
	}

	page, err := p.fetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}

	streamsJSON, err := extractObject(page, `"streamingData":`)
	if err != nil {
		return nil, fmt.Errorf("video %s has no streams: %w", videoID, domain.ErrVideoUnavailable)
	}

	var streams streamingData
	if err := json.Unmarshal(streamsJSON, &streams); err != nil {
		return nil, fmt.Errorf("failed to parse streaming data: %w", err)
	}

	audioURL := ""
	for _, f := range streams.AdaptiveFormats {
		if strings.HasPrefix(f.MimeType, "audio/") && f.URL != "" {
			audioURL = f.URL
			break
		}
	}
	if audioURL == "" {
		return nil, fmt.Errorf("video %s has no audio stream: %w", videoID, domain.ErrVideoUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio download failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("audio download returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func (p *Provider) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("watch page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page returned status %d: %w", resp.StatusCode, domain.ErrVideoUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read watch page: %w", err)
	}

	return string(body), nil
}

// extractObject finds marker in the page and returns the balanced JSON
// object that follows it. Braces inside string literals do not count
// toward nesting.
func extractObject(page, marker string) ([]byte, error) {
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, fmt.Errorf("marker %q not found", marker)
	}

	start := idx + len(marker)
	for start < len(page) && page[start] != '{' {
		start++
	}
	if start == len(page) {
		return nil, fmt.Errorf("no object after marker %q", marker)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(page); i++ {
		c := page[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				return []byte(page[start : i+1]), nil
			}
		}
	}

	return nil, fmt.Errorf("unterminated object after marker %q", marker)
}

// extractPublishDate pulls the publish date out of the player microformat.
// Newer pages carry a full timestamp, older ones a bare date.
func extractPublishDate(page string) *time.Time {
	const marker = `"publishDate":"`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil
	}

	start := idx + len(marker)
	end := strings.IndexByte(page[start:], '"')
	if end < 0 {
		return nil
	}
	raw := page[start : start+end]

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
