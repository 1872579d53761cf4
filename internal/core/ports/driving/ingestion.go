package driving

import (
	"context"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// IngestionService turns video URLs into persisted, segmented clips
type IngestionService interface {
	// Ingest processes one video URL synchronously: metadata lookup, audio
	// download and storage, transcription, segmentation, chapter
	// aggregation and a single transactional persist. Returns the existing
	// clip without reprocessing when the video was already ingested.
	Ingest(ctx context.Context, url string) (*domain.Clip, error)

	// EnqueueBatch queues a list of video URLs for background ingestion
	// and returns the created tasks.
	EnqueueBatch(ctx context.Context, urls []string) ([]*domain.Task, error)

	// TaskStatus reports the state of a queued ingestion task.
	TaskStatus(ctx context.Context, taskID string) (*domain.Task, error)
}
