package driving

import "context"

// IndexReport summarizes an embedding backfill run.
type IndexReport struct {
	Embedded int `json:"embedded"`
	Failed   int `json:"failed"`
}

// IndexerService computes embeddings for paragraphs that lack one
type IndexerService interface {
	// IndexParagraphs embeds every unembedded paragraph of a clip, or of
	// the whole corpus when clipID is empty.
	IndexParagraphs(ctx context.Context, clipID string) (*IndexReport, error)

	// EnqueueIndex queues an embedding backfill as a background task.
	EnqueueIndex(ctx context.Context, clipID string) (string, error)
}
