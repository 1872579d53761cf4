package driven

import (
	"context"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// ClipStore handles clip persistence (PostgreSQL)
type ClipStore interface {
	// Save creates or updates a clip
	Save(ctx context.Context, clip *domain.Clip) error

	// SaveIngestion persists a clip with its paragraphs and chapters in a
	// single transaction. Either everything lands or nothing does.
	SaveIngestion(ctx context.Context, clip *domain.Clip, paragraphs []*domain.Paragraph, chapters []*domain.Chapter) error

	// Get retrieves a clip by ID
	Get(ctx context.Context, id string) (*domain.Clip, error)

	// GetByVideoID retrieves a clip by its external video identifier
	GetByVideoID(ctx context.Context, videoID string) (*domain.Clip, error)

	// List retrieves clips ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Clip, error)

	// ListByChannel retrieves clips for one channel, most recently
	// published first. Clips without a publish date sort last.
	ListByChannel(ctx context.Context, channelTitle string, limit, offset int) ([]*domain.Clip, error)

	// DistinctChannels returns every channel title with at least one clip
	DistinctChannels(ctx context.Context) ([]string, error)

	// UpdateVideoID backfills the external video identifier of a clip
	UpdateVideoID(ctx context.Context, id, videoID string) error

	// Delete deletes a clip along with its paragraphs and chapters
	Delete(ctx context.Context, id string) error
}

// ParagraphStore handles paragraph persistence and search (PostgreSQL)
type ParagraphStore interface {
	// SaveBatch saves multiple paragraphs in a transaction
	SaveBatch(ctx context.Context, paragraphs []*domain.Paragraph) error

	// Get retrieves a paragraph by ID
	Get(ctx context.Context, id string) (*domain.Paragraph, error)

	// GetByClip retrieves all paragraphs for a clip ordered by start time
	GetByClip(ctx context.Context, clipID string) ([]*domain.Paragraph, error)

	// GetWithoutEmbedding retrieves paragraphs lacking an embedding.
	// An empty clipID scans the whole corpus.
	GetWithoutEmbedding(ctx context.Context, clipID string, limit int) ([]*domain.Paragraph, error)

	// UpdateEmbedding stores the embedding of one paragraph
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error

	// RelabelParagraph renames the speaker of a single paragraph
	RelabelParagraph(ctx context.Context, clipID, paragraphID, newLabel string) (int, error)

	// RelabelSpeaker renames every paragraph in the clip carrying oldLabel.
	// Returns the number of paragraphs updated.
	RelabelSpeaker(ctx context.Context, clipID, oldLabel, newLabel string) (int, error)

	// DistinctSpeakers returns the distinct speaker labels of a clip
	DistinctSpeakers(ctx context.Context, clipID string) ([]string, error)

	// SearchText ranks paragraphs by full-text relevance against the query,
	// best first, joined with their clips
	SearchText(ctx context.Context, query string, limit int) ([]*domain.RankedParagraph, error)

	// NearestByEmbedding returns the limit paragraphs closest to the query
	// embedding by L2 distance, nearest first, joined with their clips
	NearestByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*domain.RankedParagraph, error)
}

// ChapterStore handles chapter persistence (PostgreSQL)
type ChapterStore interface {
	// SaveBatch saves multiple chapters in a transaction
	SaveBatch(ctx context.Context, chapters []*domain.Chapter) error

	// GetByClip retrieves all chapters for a clip ordered by start time
	GetByClip(ctx context.Context, clipID string) ([]*domain.Chapter, error)

	// DeleteByClip deletes every chapter of a clip
	DeleteByClip(ctx context.Context, clipID string) error
}
