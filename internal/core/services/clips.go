package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
)

// Ensure clipService implements ClipService
var _ driving.ClipService = (*clipService)(nil)

// clipService implements the ClipService interface
type clipService struct {
	clips      driven.ClipStore
	paragraphs driven.ParagraphStore
	chapters   driven.ChapterStore
	objects    driven.ObjectStore
	logger     *slog.Logger
}

// NewClipService creates a new ClipService
func NewClipService(clips driven.ClipStore, paragraphs driven.ParagraphStore, chapters driven.ChapterStore, objects driven.ObjectStore, logger *slog.Logger) driving.ClipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &clipService{
		clips:      clips,
		paragraphs: paragraphs,
		chapters:   chapters,
		objects:    objects,
		logger:     logger,
	}
}

// Get retrieves a clip with its paragraphs, chapters and speakers
func (s *clipService) Get(ctx context.Context, id string) (*driving.ClipDetail, error) {
	clip, err := s.clips.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	paragraphs, err := s.paragraphs.GetByClip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load paragraphs: %w", err)
	}

	chapters, err := s.chapters.GetByClip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}

	speakers, err := s.paragraphs.DistinctSpeakers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load speakers: %w", err)
	}

	return &driving.ClipDetail{
		Clip:       clip,
		Paragraphs: paragraphs,
		Chapters:   chapters,
		Speakers:   speakers,
	}, nil
}

// List retrieves clips, newest first
func (s *clipService) List(ctx context.Context, limit, offset int) ([]*domain.Clip, error) {
	return s.clips.List(ctx, limit, offset)
}

// ListByChannel retrieves one channel's clips, newest first
func (s *clipService) ListByChannel(ctx context.Context, channelTitle string, limit, offset int) ([]*domain.Clip, error) {
	if channelTitle == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.clips.ListByChannel(ctx, channelTitle, limit, offset)
}

// Channels returns every channel with at least one clip
func (s *clipService) Channels(ctx context.Context) ([]string, error) {
	return s.clips.DistinctChannels(ctx)
}

// Relabel renames a speaker within one clip. Chapters keep the paragraph
// copies taken at ingest time, so the rename does not touch them.
func (s *clipService) Relabel(ctx context.Context, req *domain.RelabelRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	// The clip must exist before any paragraph is touched.
	if _, err := s.clips.Get(ctx, req.ClipID); err != nil {
		return 0, err
	}

	var updated int
	var err error
	switch req.Scope {
	case domain.RelabelScopeParagraph:
		updated, err = s.paragraphs.RelabelParagraph(ctx, req.ClipID, req.ParagraphID, req.NewLabel)
	case domain.RelabelScopeLabel:
		updated, err = s.paragraphs.RelabelSpeaker(ctx, req.ClipID, req.OldLabel, req.NewLabel)
	}
	if err != nil {
		return 0, err
	}

	s.logger.Info("speaker relabeled", "clip_id", req.ClipID, "scope", req.Scope,
		"new_label", req.NewLabel, "updated", updated)
	return updated, nil
}

// Delete removes a clip with its paragraphs, chapters and stored audio.
// The database rows go first; a leftover audio blob is cheaper than a clip
// pointing at deleted audio.
func (s *clipService) Delete(ctx context.Context, id string) error {
	clip, err := s.clips.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.clips.Delete(ctx, id); err != nil {
		return err
	}

	if clip.StorageKey != "" {
		if err := s.objects.Delete(ctx, clip.StorageKey); err != nil {
			s.logger.Warn("failed to delete audio blob", "clip_id", id,
				"storage_key", clip.StorageKey, "error", err)
		}
	}

	s.logger.Info("clip deleted", "clip_id", id)
	return nil
}

// BackfillVideoIDs extracts and stores the video identifier for clips that
// predate video-id tracking. Clips whose URL yields no identifier are left
// alone.
func (s *clipService) BackfillVideoIDs(ctx context.Context) (int, error) {
	clips, err := s.clips.List(ctx, 0, 0)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, clip := range clips {
		if clip.VideoID != "" {
			continue
		}
		videoID := domain.ExtractVideoID(clip.URL)
		if videoID == "" {
			s.logger.Warn("no video id in clip url", "clip_id", clip.ID, "url", clip.URL)
			continue
		}
		if err := s.clips.UpdateVideoID(ctx, clip.ID, videoID); err != nil {
			return updated, fmt.Errorf("backfill clip %s: %w", clip.ID, err)
		}
		updated++
	}

	s.logger.Info("video id backfill complete", "updated", updated)
	return updated, nil
}
