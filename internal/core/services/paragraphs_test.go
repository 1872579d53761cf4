package services

import (
	"testing"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

func TestBuildParagraphs(t *testing.T) {
	transcript := &driven.Transcript{
		Paragraphs: []driven.TranscriptParagraph{
			{
				Speaker: "Speaker 0",
				Start:   0.5,
				End:     10.2,
				Sentences: []driven.TranscriptSentence{
					{Text: "Hello there.", Start: 0.5, End: 3.0},
					{Text: "Welcome to the show.", Start: 3.2, End: 10.2},
				},
			},
			{
				Speaker:   "Speaker 1",
				Start:     10.5,
				End:       12.0,
				Sentences: nil,
			},
		},
	}

	paragraphs := BuildParagraphs("clip-1", transcript)
	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paragraphs))
	}

	p := paragraphs[0]
	if p.ClipID != "clip-1" {
		t.Errorf("expected clip-1, got %s", p.ClipID)
	}
	if p.FullTranscription != "Hello there. Welcome to the show." {
		t.Errorf("unexpected full transcription: %q", p.FullTranscription)
	}
	if len(p.Sentences) != 2 {
		t.Errorf("expected 2 sentences, got %d", len(p.Sentences))
	}
	if p.ID == "" {
		t.Error("expected a generated paragraph ID")
	}

	// No sentences means an empty text, not a crash.
	if paragraphs[1].FullTranscription != "" {
		t.Errorf("expected empty text, got %q", paragraphs[1].FullTranscription)
	}
}

func TestBuildParagraphsEmpty(t *testing.T) {
	paragraphs := BuildParagraphs("clip-1", &driven.Transcript{})
	if len(paragraphs) != 0 {
		t.Errorf("expected no paragraphs, got %d", len(paragraphs))
	}
}

func TestJoinTranscript(t *testing.T) {
	paragraphs := []*domain.Paragraph{
		{Speaker: "Speaker 0", FullTranscription: "First thing."},
		{Speaker: "Speaker 1", FullTranscription: "Second thing."},
	}

	got := JoinTranscript(paragraphs)
	want := "Speaker: Speaker 0\nFirst thing.\n\nSpeaker: Speaker 1\nSecond thing."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if JoinTranscript(nil) != "" {
		t.Error("expected empty transcript for no paragraphs")
	}
}
