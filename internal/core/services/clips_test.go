package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven/mocks"
)

type clipFixture struct {
	clips      *mocks.MockClipStore
	paragraphs *mocks.MockParagraphStore
	chapters   *mocks.MockChapterStore
	objects    *mocks.MockObjectStore
}

func newClipFixture(t *testing.T) (*clipFixture, *clipService) {
	t.Helper()
	f := &clipFixture{
		clips:      mocks.NewMockClipStore(),
		paragraphs: mocks.NewMockParagraphStore(),
		chapters:   mocks.NewMockChapterStore(),
		objects:    mocks.NewMockObjectStore(),
	}
	svc := NewClipService(f.clips, f.paragraphs, f.chapters, f.objects, nil)
	return f, svc.(*clipService)
}

func seedClip(t *testing.T, f *clipFixture) *domain.Clip {
	t.Helper()
	clip := &domain.Clip{
		ID:           "clip-1",
		URL:          "https://www.youtube.com/watch?v=abc",
		VideoID:      "abc",
		ChannelTitle: "Test Channel",
		StorageKey:   "audio/abc.mp4",
		CreatedAt:    time.Now(),
	}
	if err := f.clips.Save(context.Background(), clip); err != nil {
		t.Fatalf("seed clip: %v", err)
	}
	_ = f.objects.Upload(context.Background(), clip.StorageKey, bytes.NewReader([]byte("audio")), "audio/mp4")
	err := f.paragraphs.SaveBatch(context.Background(), []*domain.Paragraph{
		{ID: "p1", ClipID: "clip-1", Start: 0, End: 10, Speaker: "Speaker 0"},
		{ID: "p2", ClipID: "clip-1", Start: 10, End: 20, Speaker: "Speaker 1"},
		{ID: "p3", ClipID: "clip-1", Start: 20, End: 30, Speaker: "Speaker 0"},
	})
	if err != nil {
		t.Fatalf("seed paragraphs: %v", err)
	}
	return clip
}

func TestClipService_Get(t *testing.T) {
	f, svc := newClipFixture(t)
	seedClip(t, f)
	_ = f.chapters.SaveBatch(context.Background(), []*domain.Chapter{
		{ID: "ch1", ClipID: "clip-1", Title: "Intro", Start: 0},
	})

	detail, err := svc.Get(context.Background(), "clip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Clip.ID != "clip-1" {
		t.Errorf("expected clip-1, got %s", detail.Clip.ID)
	}
	if len(detail.Paragraphs) != 3 {
		t.Errorf("expected 3 paragraphs, got %d", len(detail.Paragraphs))
	}
	if len(detail.Chapters) != 1 {
		t.Errorf("expected 1 chapter, got %d", len(detail.Chapters))
	}
	if len(detail.Speakers) != 2 {
		t.Errorf("expected 2 speakers, got %d", len(detail.Speakers))
	}
}

func TestClipService_GetNotFound(t *testing.T) {
	_, svc := newClipFixture(t)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClipService_RelabelParagraph(t *testing.T) {
	f, svc := newClipFixture(t)
	seedClip(t, f)

	updated, err := svc.Relabel(context.Background(), &domain.RelabelRequest{
		ClipID:      "clip-1",
		Scope:       domain.RelabelScopeParagraph,
		ParagraphID: "p1",
		NewLabel:    "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 1 {
		t.Errorf("expected 1 updated, got %d", updated)
	}

	p1, _ := f.paragraphs.Get(context.Background(), "p1")
	if p1.Speaker != "Alice" {
		t.Errorf("expected Alice, got %s", p1.Speaker)
	}
	p3, _ := f.paragraphs.Get(context.Background(), "p3")
	if p3.Speaker != "Speaker 0" {
		t.Errorf("expected other paragraphs untouched, got %s", p3.Speaker)
	}
}

func TestClipService_RelabelByLabel(t *testing.T) {
	f, svc := newClipFixture(t)
	seedClip(t, f)

	updated, err := svc.Relabel(context.Background(), &domain.RelabelRequest{
		ClipID:   "clip-1",
		Scope:    domain.RelabelScopeLabel,
		OldLabel: "Speaker 0",
		NewLabel: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 2 {
		t.Errorf("expected 2 updated, got %d", updated)
	}

	speakers, _ := f.paragraphs.DistinctSpeakers(context.Background(), "clip-1")
	for _, s := range speakers {
		if s == "Speaker 0" {
			t.Error("expected no paragraph left with the old label")
		}
	}
}

func TestClipService_RelabelValidation(t *testing.T) {
	f, svc := newClipFixture(t)
	seedClip(t, f)

	_, err := svc.Relabel(context.Background(), &domain.RelabelRequest{
		ClipID: "clip-1",
		Scope:  domain.RelabelScopeLabel,
		// no new label
		OldLabel: "Speaker 0",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.Relabel(context.Background(), &domain.RelabelRequest{
		ClipID:   "missing",
		Scope:    domain.RelabelScopeLabel,
		OldLabel: "Speaker 0",
		NewLabel: "Alice",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown clip, got %v", err)
	}
}

func TestClipService_Delete(t *testing.T) {
	f, svc := newClipFixture(t)
	clip := seedClip(t, f)

	if err := svc.Delete(context.Background(), clip.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.clips.Get(context.Background(), clip.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("expected clip to be deleted")
	}
	if _, ok := f.objects.Object(clip.StorageKey); ok {
		t.Error("expected audio blob to be deleted")
	}
}

func TestClipService_BackfillVideoIDs(t *testing.T) {
	f, svc := newClipFixture(t)
	_ = f.clips.Save(context.Background(), &domain.Clip{
		ID:  "old-1",
		URL: "https://www.youtube.com/watch?v=xyz789",
	})
	_ = f.clips.Save(context.Background(), &domain.Clip{
		ID:      "new-1",
		URL:     "https://www.youtube.com/watch?v=abc",
		VideoID: "abc",
	})
	_ = f.clips.Save(context.Background(), &domain.Clip{
		ID:  "weird-1",
		URL: "https://example.com/not-a-video",
	})

	updated, err := svc.BackfillVideoIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 1 {
		t.Errorf("expected 1 updated, got %d", updated)
	}

	old, _ := f.clips.Get(context.Background(), "old-1")
	if old.VideoID != "xyz789" {
		t.Errorf("expected backfilled video id xyz789, got %s", old.VideoID)
	}
}

func TestClipService_Channels(t *testing.T) {
	f, svc := newClipFixture(t)
	seedClip(t, f)
	_ = f.clips.Save(context.Background(), &domain.Clip{ID: "clip-2", ChannelTitle: "Other Channel"})

	channels, err := svc.Channels(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(channels) != 2 {
		t.Errorf("expected 2 channels, got %d", len(channels))
	}

	clips, err := svc.ListByChannel(context.Background(), "Test Channel", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clips) != 1 || clips[0].ID != "clip-1" {
		t.Errorf("unexpected channel clips: %d", len(clips))
	}

	if _, err := svc.ListByChannel(context.Background(), "", 0, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty channel, got %v", err)
	}
}

func TestClipService_ListByChannelOrder(t *testing.T) {
	f, svc := newClipFixture(t)

	now := time.Now()
	older := now.Add(-48 * time.Hour)
	newer := now.Add(-1 * time.Hour)

	// Ingestion order and publish order disagree on purpose: "a" was
	// ingested last but published first.
	_ = f.clips.Save(context.Background(), &domain.Clip{
		ID: "a", ChannelTitle: "Test Channel", PublishedAt: &older, CreatedAt: now,
	})
	_ = f.clips.Save(context.Background(), &domain.Clip{
		ID: "b", ChannelTitle: "Test Channel", PublishedAt: &newer, CreatedAt: older,
	})
	_ = f.clips.Save(context.Background(), &domain.Clip{
		ID: "c", ChannelTitle: "Test Channel", CreatedAt: now,
	})

	clips, err := svc.ListByChannel(context.Background(), "Test Channel", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(clips))
	}
	if clips[0].ID != "b" || clips[1].ID != "a" {
		t.Errorf("expected publish-date order b, a, got %s, %s", clips[0].ID, clips[1].ID)
	}
	if clips[2].ID != "c" {
		t.Errorf("expected clip without publish date last, got %s", clips[2].ID)
	}
}
