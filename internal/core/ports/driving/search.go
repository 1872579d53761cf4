package driving

import (
	"context"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// SearchService handles paragraph search across all clips
type SearchService interface {
	// Search ranks paragraphs against the query and groups the matches by
	// clip. An empty query returns an explicit empty-query result, not an
	// error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error)
}
