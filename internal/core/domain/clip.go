package domain

import (
	"encoding/json"
	"time"
)

// Clip represents one ingested video with its transcript-level metadata.
type Clip struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	VideoID string `json:"video_id"` // external video identifier, unique when present

	StorageKey string `json:"storage_key"` // object storage key for the audio blob
	StorageURL string `json:"storage_url"`

	Duration     int    `json:"duration"` // seconds
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	Description  string `json:"description"`

	FullTranscription string `json:"full_transcription"`
	Summary           string `json:"summary"`

	// Raw transcription payloads, kept verbatim for reprocessing
	RawParagraphs json.RawMessage `json:"raw_paragraphs,omitempty"`
	RawWords      json.RawMessage `json:"raw_words,omitempty"`

	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Sentence is one sentence of a diarized paragraph, with sub-offsets in seconds.
type Sentence struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Paragraph is one diarized transcript segment. The speaker label is free
// text and clip-local ("Speaker 0"): diarization does not produce stable
// identities across clips.
type Paragraph struct {
	ID     string `json:"id"`
	ClipID string `json:"clip_id"`

	Start   float64 `json:"start"` // seconds, may be fractional
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`

	Sentences         []Sentence `json:"sentences"`
	FullTranscription string     `json:"full_transcription"`

	// Embedding is nil until the indexer has processed this paragraph.
	Embedding []float32 `json:"embedding,omitempty"`
}

// Chapter is a description-declared section of a clip's timeline. It holds a
// value-copy of its paragraph subset taken at creation time; later paragraph
// edits do not propagate into it.
type Chapter struct {
	ID     string `json:"id"`
	ClipID string `json:"clip_id"`

	Title string  `json:"title"`
	Start float64 `json:"start"` // seconds

	Paragraphs           []Paragraph `json:"paragraphs"`
	ChapterTranscription string      `json:"chapter_transcription"`
	Prompt               string      `json:"prompt"`
	Summary              string      `json:"summary"`

	CreatedAt time.Time `json:"created_at"`
}

// RelabelScope selects which paragraphs a speaker relabel applies to.
type RelabelScope string

const (
	// RelabelScopeParagraph renames the speaker of a single paragraph
	RelabelScopeParagraph RelabelScope = "paragraph"
	// RelabelScopeLabel renames every paragraph in the clip with the old label
	RelabelScopeLabel RelabelScope = "label"
)

// RelabelRequest describes a scoped speaker rename within one clip.
type RelabelRequest struct {
	ClipID      string       `json:"clip_id"`
	Scope       RelabelScope `json:"scope"`
	ParagraphID string       `json:"paragraph_id,omitempty"`
	OldLabel    string       `json:"old_label,omitempty"`
	NewLabel    string       `json:"new_label"`
}

// Validate checks the relabel request shape. A missing new label is the
// client error the relabel surface must report.
func (r *RelabelRequest) Validate() error {
	if r.NewLabel == "" {
		return ErrInvalidInput
	}
	if r.ClipID == "" {
		return ErrInvalidInput
	}
	switch r.Scope {
	case RelabelScopeParagraph:
		if r.ParagraphID == "" {
			return ErrInvalidInput
		}
	case RelabelScopeLabel:
		if r.OldLabel == "" {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}
