package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
	"github.com/theptrk/word-steno/internal/runtime"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

const (
	// maxClipDuration caps ingestable videos at two hours
	maxClipDuration = 2 * 60 * 60

	// ingestLockTTL bounds how long a crashed ingest blocks retries
	ingestLockTTL = 15 * time.Minute

	// signedURLExpiry must outlive the transcription call
	signedURLExpiry = time.Hour
)

// ingestionService implements the IngestionService interface
type ingestionService struct {
	clips       driven.ClipStore
	videos      driven.VideoProvider
	transcriber driven.Transcriber
	objects     driven.ObjectStore
	lock        driven.DistributedLock
	queue       driven.TaskQueue
	aggregator  *ChapterAggregator
	services    *runtime.Services
	logger      *slog.Logger
}

// IngestionServiceConfig holds dependencies for the ingestion service.
type IngestionServiceConfig struct {
	ClipStore     driven.ClipStore
	VideoProvider driven.VideoProvider
	Transcriber   driven.Transcriber
	ObjectStore   driven.ObjectStore
	Lock          driven.DistributedLock
	Queue         driven.TaskQueue
	Services      *runtime.Services
	Logger        *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionServiceConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ingestionService{
		clips:       cfg.ClipStore,
		videos:      cfg.VideoProvider,
		transcriber: cfg.Transcriber,
		objects:     cfg.ObjectStore,
		lock:        cfg.Lock,
		queue:       cfg.Queue,
		aggregator:  NewChapterAggregator(cfg.Services, logger),
		services:    cfg.Services,
		logger:      logger,
	}
}

// Ingest processes one video URL end to end. Metadata lookup, the audio
// round-trip and transcription all happen before anything is written;
// the clip, its paragraphs and its chapters then land in one transaction.
func (s *ingestionService) Ingest(ctx context.Context, url string) (*domain.Clip, error) {
	if url == "" {
		return nil, domain.ErrInvalidInput
	}

	meta, err := s.videos.Lookup(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("video lookup: %w", err)
	}

	if meta.Duration > maxClipDuration {
		return nil, domain.ErrVideoTooLong
	}

	// Same video ingested before: return it instead of reprocessing.
	if existing, err := s.clips.GetByVideoID(ctx, meta.VideoID); err == nil {
		s.logger.Info("clip already ingested", "video_id", meta.VideoID, "clip_id", existing.ID)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// One ingest per video at a time across instances.
	lockName := "ingest:" + meta.VideoID
	acquired, err := s.lock.Acquire(ctx, lockName, ingestLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !acquired {
		return nil, domain.ErrIngestInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			s.logger.Warn("failed to release ingest lock", "lock", lockName, "error", err)
		}
	}()

	// The lock was free, but a concurrent ingest may have finished between
	// the dedupe check and the acquire.
	if existing, err := s.clips.GetByVideoID(ctx, meta.VideoID); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	s.logger.Info("ingesting clip", "video_id", meta.VideoID, "title", meta.Title,
		"duration", meta.Duration)

	audio, err := s.videos.DownloadAudio(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("download audio: %w", err)
	}
	defer audio.Close()

	storageKey := "audio/" + meta.VideoID + ".mp4"
	if err := s.objects.Upload(ctx, storageKey, audio, "audio/mp4"); err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	audioURL, err := s.objects.SignedURL(ctx, storageKey, signedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("sign audio url: %w", err)
	}

	transcript, err := s.transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	now := time.Now()
	clip := &domain.Clip{
		ID:            domain.GenerateID(),
		URL:           url,
		VideoID:       meta.VideoID,
		StorageKey:    storageKey,
		StorageURL:    audioURL,
		Duration:      meta.Duration,
		Title:         meta.Title,
		ChannelTitle:  meta.ChannelTitle,
		Description:   meta.Description,
		Summary:       transcript.Summary,
		RawParagraphs: transcript.RawParagraphs,
		RawWords:      transcript.RawWords,
		PublishedAt:   meta.PublishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	paragraphs := BuildParagraphs(clip.ID, transcript)
	clip.FullTranscription = JoinTranscript(paragraphs)
	chapters := s.aggregator.BuildChapters(ctx, clip, paragraphs)

	if err := s.clips.SaveIngestion(ctx, clip, paragraphs, chapters); err != nil {
		return nil, fmt.Errorf("persist ingestion: %w", err)
	}

	s.logger.Info("clip ingested", "clip_id", clip.ID, "video_id", clip.VideoID,
		"paragraphs", len(paragraphs), "chapters", len(chapters))

	return clip, nil
}

// EnqueueBatch queues one ingest task per URL.
func (s *ingestionService) EnqueueBatch(ctx context.Context, urls []string) ([]*domain.Task, error) {
	if len(urls) == 0 {
		return nil, domain.ErrInvalidInput
	}

	tasks := make([]*domain.Task, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		tasks = append(tasks, domain.NewIngestClipTask(url))
	}
	if len(tasks) == 0 {
		return nil, domain.ErrInvalidInput
	}

	if err := s.queue.EnqueueBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("enqueue ingest tasks: %w", err)
	}
	return tasks, nil
}

// TaskStatus reports the state of a queued task.
func (s *ingestionService) TaskStatus(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.queue.GetTask(ctx, taskID)
}
