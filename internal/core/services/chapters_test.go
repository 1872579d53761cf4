package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven/mocks"
	"github.com/theptrk/word-steno/internal/runtime"
)

// createTestServices creates runtime services for testing
func createTestServices(embedding *mocks.MockEmbeddingService, summarizer *mocks.MockSummarizer) *runtime.Services {
	services := runtime.NewServices()
	if embedding != nil {
		services.SetEmbeddingService(embedding)
	}
	if summarizer != nil {
		services.SetSummarizer(summarizer)
	}
	return services
}

func testClipWithChapters() (*domain.Clip, []*domain.Paragraph) {
	clip := &domain.Clip{
		ID:          "clip-1",
		Duration:    600,
		Description: "(0:00) Intro\n5:00 - Main Topic",
	}
	paragraphs := []*domain.Paragraph{
		{ID: "p1", ClipID: "clip-1", Start: 10, End: 60, Speaker: "Speaker 0", FullTranscription: "Welcome everyone."},
		{ID: "p2", ClipID: "clip-1", Start: 120, End: 280, Speaker: "Speaker 1", FullTranscription: "Glad to be here."},
		{ID: "p3", ClipID: "clip-1", Start: 300, End: 580, Speaker: "Speaker 0", FullTranscription: "Let's get into it."},
	}
	return clip, paragraphs
}

func TestChapterAggregator_BuildChapters(t *testing.T) {
	summarizer := mocks.NewMockSummarizer()
	aggregator := NewChapterAggregator(createTestServices(nil, summarizer), nil)

	clip, paragraphs := testClipWithChapters()
	chapters := aggregator.BuildChapters(context.Background(), clip, paragraphs)

	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}

	intro := chapters[0]
	if intro.Title != "Intro" || intro.Start != 0 {
		t.Errorf("unexpected first chapter: %s at %f", intro.Title, intro.Start)
	}
	if len(intro.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs in intro, got %d", len(intro.Paragraphs))
	}
	wantText := "Speaker: Speaker 0\nWelcome everyone.\n\nSpeaker: Speaker 1\nGlad to be here."
	if intro.ChapterTranscription != wantText {
		t.Errorf("unexpected chapter transcription: %q", intro.ChapterTranscription)
	}
	if !strings.Contains(intro.Prompt, "'Speaker 0', 'Speaker 1'") {
		t.Errorf("expected quoted speaker list in prompt, got %q", intro.Prompt)
	}
	if !strings.Contains(intro.Prompt, `"Intro"`) {
		t.Errorf("expected chapter title in prompt, got %q", intro.Prompt)
	}
	if intro.Summary != "- mock summary" {
		t.Errorf("expected mock summary, got %q", intro.Summary)
	}

	main := chapters[1]
	if main.Title != "Main Topic" || main.Start != 300 {
		t.Errorf("unexpected second chapter: %s at %f", main.Title, main.Start)
	}
	// p3 starts exactly at the chapter boundary and belongs to the later
	// chapter.
	if len(main.Paragraphs) != 1 || main.Paragraphs[0].ID != "p3" {
		t.Errorf("expected only p3 in second chapter, got %d paragraphs", len(main.Paragraphs))
	}

	if len(summarizer.Prompts) != 2 {
		t.Errorf("expected 2 summarization calls, got %d", len(summarizer.Prompts))
	}
}

func TestChapterAggregator_NoMarkers(t *testing.T) {
	aggregator := NewChapterAggregator(createTestServices(nil, mocks.NewMockSummarizer()), nil)

	clip := &domain.Clip{ID: "clip-1", Duration: 600, Description: "No chapters in here."}
	chapters := aggregator.BuildChapters(context.Background(), clip, nil)
	if chapters != nil {
		t.Errorf("expected no chapters, got %d", len(chapters))
	}
}

func TestChapterAggregator_SummarizerFailure(t *testing.T) {
	summarizer := mocks.NewMockSummarizer()
	summarizer.Err = errors.New("model overloaded")
	aggregator := NewChapterAggregator(createTestServices(nil, summarizer), nil)

	clip, paragraphs := testClipWithChapters()
	chapters := aggregator.BuildChapters(context.Background(), clip, paragraphs)

	// A failed summarization keeps the chapter, with the attempted prompt
	// and no summary.
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters despite failure, got %d", len(chapters))
	}
	for _, c := range chapters {
		if c.Summary != "" {
			t.Errorf("expected empty summary, got %q", c.Summary)
		}
		if c.Prompt == "" {
			t.Error("expected attempted prompt to be stored")
		}
	}
}

func TestChapterAggregator_NoSummarizer(t *testing.T) {
	aggregator := NewChapterAggregator(createTestServices(nil, nil), nil)

	clip, paragraphs := testClipWithChapters()
	chapters := aggregator.BuildChapters(context.Background(), clip, paragraphs)
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Summary != "" {
		t.Errorf("expected empty summary without summarizer, got %q", chapters[0].Summary)
	}
}

func TestChapterAggregator_CopiesFrozen(t *testing.T) {
	aggregator := NewChapterAggregator(createTestServices(nil, mocks.NewMockSummarizer()), nil)

	clip, paragraphs := testClipWithChapters()
	chapters := aggregator.BuildChapters(context.Background(), clip, paragraphs)

	// Chapters hold value copies: a later relabel must not leak into them.
	paragraphs[0].Speaker = "Alice"
	if chapters[0].Paragraphs[0].Speaker != "Speaker 0" {
		t.Errorf("expected frozen speaker label, got %s", chapters[0].Paragraphs[0].Speaker)
	}
}
