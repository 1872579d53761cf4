package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
	"github.com/theptrk/word-steno/internal/runtime"
)

// Ensure indexerService implements IndexerService
var _ driving.IndexerService = (*indexerService)(nil)

// embedBatchSize bounds how many paragraph texts go into one embedding call
const embedBatchSize = 64

// indexerService implements the IndexerService interface
type indexerService struct {
	paragraphs driven.ParagraphStore
	queue      driven.TaskQueue
	services   *runtime.Services
	logger     *slog.Logger
}

// NewIndexerService creates a new IndexerService
func NewIndexerService(paragraphs driven.ParagraphStore, queue driven.TaskQueue, services *runtime.Services, logger *slog.Logger) driving.IndexerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &indexerService{
		paragraphs: paragraphs,
		queue:      queue,
		services:   services,
		logger:     logger,
	}
}

// IndexParagraphs embeds every paragraph lacking an embedding, batch by
// batch. A failed batch is counted and skipped; the run keeps going.
func (s *indexerService) IndexParagraphs(ctx context.Context, clipID string) (*driving.IndexReport, error) {
	embeddingService := s.services.EmbeddingService()
	if embeddingService == nil {
		return nil, domain.ErrServiceUnavailable
	}

	report := &driving.IndexReport{}
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := s.paragraphs.GetWithoutEmbedding(ctx, clipID, embedBatchSize)
		if err != nil {
			return report, fmt.Errorf("load unembedded paragraphs: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		texts := make([]string, len(batch))
		for i, p := range batch {
			texts[i] = p.FullTranscription
		}

		embeddings, err := embeddingService.Embed(ctx, texts)
		if err != nil {
			// The next GetWithoutEmbedding would return the same batch,
			// so a failed embed call ends the run.
			s.logger.Error("embedding batch failed", "clip_id", clipID,
				"batch_size", len(batch), "error", err)
			report.Failed += len(batch)
			return report, fmt.Errorf("embed paragraphs: %w", err)
		}
		if len(embeddings) != len(batch) {
			return report, fmt.Errorf("embed paragraphs: got %d embeddings for %d texts", len(embeddings), len(batch))
		}

		stored := 0
		for i, p := range batch {
			if err := s.paragraphs.UpdateEmbedding(ctx, p.ID, embeddings[i]); err != nil {
				s.logger.Error("failed to store embedding", "paragraph_id", p.ID, "error", err)
				report.Failed++
				continue
			}
			stored++
			report.Embedded++
		}

		// A batch that stored nothing would come straight back on the next
		// iteration.
		if stored == 0 {
			return report, fmt.Errorf("embed paragraphs: no embeddings stored for batch of %d", len(batch))
		}
	}

	s.logger.Info("indexing complete", "clip_id", clipID,
		"embedded", report.Embedded, "failed", report.Failed)
	return report, nil
}

// EnqueueIndex queues an embedding backfill as a background task and
// returns the task ID.
func (s *indexerService) EnqueueIndex(ctx context.Context, clipID string) (string, error) {
	task := domain.NewEmbedParagraphsTask(clipID)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return "", fmt.Errorf("enqueue index task: %w", err)
	}
	return task.ID, nil
}
