package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theptrk/word-steno/internal/core/domain"
)

func watchPage(audioURL string) string {
	return fmt.Sprintf(`<html><script>var ytInitialPlayerResponse = {
		"videoDetails":{
			"videoId":"abc123",
			"title":"Engineering Deep Dive {with braces}",
			"author":"Tech Channel",
			"shortDescription":"(0:00) Intro\n(5:00) Main topic \"quoted\"",
			"lengthSeconds":"1800"
		},
		"microformat":{"playerMicroformatRenderer":{"publishDate":"2024-03-15"}},
		"streamingData":{
			"adaptiveFormats":[
				{"itag":137,"mimeType":"video/mp4; codecs=\"avc1\"","url":"https://example.com/video"},
				{"itag":140,"mimeType":"audio/mp4; codecs=\"mp4a.40.2\"","url":"%s"}
			]
		}
	};</script></html>`, audioURL)
}

func TestProvider_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/watch" {
			t.Errorf("expected /watch, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("v") != "abc123" {
			t.Errorf("expected v=abc123, got %s", r.URL.Query().Get("v"))
		}
		w.Write([]byte(watchPage("https://example.com/audio")))
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	meta, err := p.Lookup(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.VideoID != "abc123" {
		t.Errorf("expected video ID abc123, got %s", meta.VideoID)
	}
	if meta.Title != "Engineering Deep Dive {with braces}" {
		t.Errorf("unexpected title: %q", meta.Title)
	}
	if meta.ChannelTitle != "Tech Channel" {
		t.Errorf("unexpected channel: %q", meta.ChannelTitle)
	}
	if meta.Duration != 1800 {
		t.Errorf("expected duration 1800, got %d", meta.Duration)
	}
	if meta.Description == "" || meta.Description[0] != '(' {
		t.Errorf("unexpected description: %q", meta.Description)
	}
	if meta.PublishedAt == nil {
		t.Fatal("expected publish date")
	}
	if meta.PublishedAt.Year() != 2024 || int(meta.PublishedAt.Month()) != 3 {
		t.Errorf("unexpected publish date: %v", meta.PublishedAt)
	}
}

func TestProvider_Lookup_BadURL(t *testing.T) {
	p := NewProvider("")

	_, err := p.Lookup(context.Background(), "https://example.com/not-a-video")
	if !errors.Is(err, domain.ErrVideoUnavailable) {
		t.Errorf("expected ErrVideoUnavailable, got %v", err)
	}
}

func TestProvider_Lookup_PageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	_, err := p.Lookup(context.Background(), "https://www.youtube.com/watch?v=gone")
	if !errors.Is(err, domain.ErrVideoUnavailable) {
		t.Errorf("expected ErrVideoUnavailable, got %v", err)
	}
}

func TestProvider_Lookup_NoPlayerResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>consent page</body></html>"))
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	_, err := p.Lookup(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if !errors.Is(err, domain.ErrVideoUnavailable) {
		t.Errorf("expected ErrVideoUnavailable, got %v", err)
	}
}

func TestProvider_DownloadAudio(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			w.Write([]byte(watchPage(server.URL + "/audio")))
		case "/audio":
			w.Write([]byte("audio-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	body, err := p.DownloadAudio(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read audio: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("unexpected audio content: %q", data)
	}
}

func TestProvider_DownloadAudio_NoAudioFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>{"videoDetails":{"videoId":"abc123","title":"t","author":"a","lengthSeconds":"10"},"streamingData":{"adaptiveFormats":[{"itag":137,"mimeType":"video/mp4","url":"https://example.com/video"}]}}</html>`))
	}))
	defer server.Close()

	p := NewProvider(server.URL)

	_, err := p.DownloadAudio(context.Background(), "https://www.youtube.com/watch?v=abc123")
	if !errors.Is(err, domain.ErrVideoUnavailable) {
		t.Errorf("expected ErrVideoUnavailable, got %v", err)
	}
}

func TestExtractObject(t *testing.T) {
	page := `prefix "data":{"a":{"b":"}"},"c":1} suffix`

	obj, err := extractObject(page, `"data":`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(obj) != `{"a":{"b":"}"},"c":1}` {
		t.Errorf("unexpected object: %s", obj)
	}
}

func TestExtractObject_MissingMarker(t *testing.T) {
	if _, err := extractObject("nothing here", `"data":`); err == nil {
		t.Error("expected error for missing marker")
	}
}

func TestExtractObject_Unterminated(t *testing.T) {
	if _, err := extractObject(`"data":{"a":1`, `"data":`); err == nil {
		t.Error("expected error for unterminated object")
	}
}

func TestExtractPublishDate(t *testing.T) {
	if got := extractPublishDate(`{"publishDate":"2024-03-15"}`); got == nil || got.Day() != 15 {
		t.Errorf("unexpected date: %v", got)
	}
	if got := extractPublishDate(`{"publishDate":"2024-03-15T08:00:00-07:00"}`); got == nil || got.Day() != 15 {
		t.Errorf("unexpected timestamp date: %v", got)
	}
	if got := extractPublishDate(`{}`); got != nil {
		t.Errorf("expected nil for missing date, got %v", got)
	}
}
