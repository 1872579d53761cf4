package services

import (
	"context"
	"errors"
	"testing"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven/mocks"
)

func TestIndexerService_IndexParagraphs(t *testing.T) {
	store := mocks.NewMockParagraphStore()
	_ = store.SaveBatch(context.Background(), []*domain.Paragraph{
		{ID: "p1", ClipID: "clip-a", FullTranscription: "first"},
		{ID: "p2", ClipID: "clip-a", FullTranscription: "second"},
		{ID: "p3", ClipID: "clip-b", FullTranscription: "third", Embedding: []float32{0.1}},
	})

	svc := NewIndexerService(store, mocks.NewMockTaskQueue(), createTestServices(mocks.NewMockEmbeddingService(), nil), nil)

	report, err := svc.IndexParagraphs(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Embedded != 2 {
		t.Errorf("expected 2 embedded, got %d", report.Embedded)
	}
	if report.Failed != 0 {
		t.Errorf("expected 0 failed, got %d", report.Failed)
	}

	for _, id := range []string{"p1", "p2"} {
		p, _ := store.Get(context.Background(), id)
		if p.Embedding == nil {
			t.Errorf("expected %s to be embedded", id)
		}
	}
}

func TestIndexerService_ScopedToClip(t *testing.T) {
	store := mocks.NewMockParagraphStore()
	_ = store.SaveBatch(context.Background(), []*domain.Paragraph{
		{ID: "p1", ClipID: "clip-a", FullTranscription: "first"},
		{ID: "p2", ClipID: "clip-b", FullTranscription: "second"},
	})

	svc := NewIndexerService(store, mocks.NewMockTaskQueue(), createTestServices(mocks.NewMockEmbeddingService(), nil), nil)

	report, err := svc.IndexParagraphs(context.Background(), "clip-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Embedded != 1 {
		t.Errorf("expected 1 embedded, got %d", report.Embedded)
	}

	p2, _ := store.Get(context.Background(), "p2")
	if p2.Embedding != nil {
		t.Error("expected clip-b paragraph untouched")
	}
}

func TestIndexerService_NoEmbeddingService(t *testing.T) {
	svc := NewIndexerService(mocks.NewMockParagraphStore(), mocks.NewMockTaskQueue(), createTestServices(nil, nil), nil)

	_, err := svc.IndexParagraphs(context.Background(), "")
	if !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestIndexerService_EmbedFailure(t *testing.T) {
	store := mocks.NewMockParagraphStore()
	_ = store.SaveBatch(context.Background(), []*domain.Paragraph{
		{ID: "p1", ClipID: "clip-a", FullTranscription: "first"},
	})

	embedding := mocks.NewMockEmbeddingService()
	embedding.SetFailNext(true)
	svc := NewIndexerService(store, mocks.NewMockTaskQueue(), createTestServices(embedding, nil), nil)

	report, err := svc.IndexParagraphs(context.Background(), "")
	if err == nil {
		t.Fatal("expected an error")
	}
	if report.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", report.Failed)
	}
}

func TestIndexerService_EnqueueIndex(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	svc := NewIndexerService(mocks.NewMockParagraphStore(), queue, createTestServices(nil, nil), nil)

	taskID, err := svc.EnqueueIndex(context.Background(), "clip-a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task, err := queue.GetTask(context.Background(), taskID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type != domain.TaskTypeEmbedParagraphs {
		t.Errorf("expected embed task, got %s", task.Type)
	}
	if task.ClipID() != "clip-a" {
		t.Errorf("expected clip-a payload, got %s", task.ClipID())
	}
}
