package driving

import (
	"context"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// ClipDetail is a clip joined with everything needed to render it.
type ClipDetail struct {
	Clip       *domain.Clip        `json:"clip"`
	Paragraphs []*domain.Paragraph `json:"paragraphs"`
	Chapters   []*domain.Chapter   `json:"chapters"`
	Speakers   []string            `json:"speakers"`
}

// ClipService provides clip browsing and editing operations
type ClipService interface {
	// Get retrieves a clip with its paragraphs, chapters and speakers
	Get(ctx context.Context, id string) (*ClipDetail, error)

	// List retrieves clips, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Clip, error)

	// ListByChannel retrieves one channel's clips, newest first
	ListByChannel(ctx context.Context, channelTitle string, limit, offset int) ([]*domain.Clip, error)

	// Channels returns every channel with at least one clip
	Channels(ctx context.Context) ([]string, error)

	// Relabel renames a speaker within one clip, scoped to a single
	// paragraph or to every paragraph carrying the old label. Returns the
	// number of paragraphs updated.
	Relabel(ctx context.Context, req *domain.RelabelRequest) (int, error)

	// Delete removes a clip with its paragraphs, chapters and stored audio
	Delete(ctx context.Context, id string) error

	// BackfillVideoIDs extracts and stores the video identifier for clips
	// that predate video-id tracking. Returns the number updated.
	BackfillVideoIDs(ctx context.Context) (int, error)
}
