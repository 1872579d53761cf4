package driven

import (
	"context"
	"io"
	"time"
)

// VideoMetadata is what a video provider knows about a video before any
// audio is fetched.
type VideoMetadata struct {
	VideoID      string
	URL          string
	Title        string
	ChannelTitle string
	Description  string
	Duration     int // seconds
	PublishedAt  *time.Time
}

// VideoProvider resolves video URLs into metadata and audio.
type VideoProvider interface {
	// Lookup fetches metadata for the video at url without downloading
	// media. Returns domain.ErrVideoUnavailable when the video cannot be
	// resolved.
	Lookup(ctx context.Context, url string) (*VideoMetadata, error)

	// DownloadAudio streams the audio track of the video. The caller must
	// close the reader.
	DownloadAudio(ctx context.Context, url string) (io.ReadCloser, error)
}

// TranscriptParagraph is one diarized segment as returned by the
// transcription provider, before it becomes a domain paragraph.
type TranscriptParagraph struct {
	Speaker   string
	Start     float64
	End       float64
	Sentences []TranscriptSentence
}

// TranscriptSentence is one sentence inside a transcript paragraph.
type TranscriptSentence struct {
	Text  string
	Start float64
	End   float64
}

// Transcript is the full result of transcribing one audio stream.
type Transcript struct {
	Paragraphs []TranscriptParagraph
	Summary    string

	// RawParagraphs and RawWords are the provider's verbatim payloads,
	// kept for reprocessing.
	RawParagraphs []byte
	RawWords      []byte
}

// Transcriber turns audio into a diarized transcript.
type Transcriber interface {
	// Transcribe processes the audio reachable at audioURL and returns the
	// diarized transcript. Long audio means long calls; implementations
	// set their own generous timeout.
	Transcribe(ctx context.Context, audioURL string) (*Transcript, error)
}

// ObjectStore handles audio blob persistence (Supabase storage).
type ObjectStore interface {
	// Upload stores the blob under key and returns nothing; the key is the
	// caller's handle.
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error

	// SignedURL returns a time-limited URL for the blob under key.
	SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Delete removes the blob under key.
	Delete(ctx context.Context, key string) error
}
