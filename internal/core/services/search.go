package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
	"github.com/theptrk/word-steno/internal/core/ports/driving"
	"github.com/theptrk/word-steno/internal/runtime"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService implements the SearchService interface
type searchService struct {
	paragraphs driven.ParagraphStore
	services   *runtime.Services // Dynamic AI services
}

// NewSearchService creates a new SearchService.
// The embedding service is accessed dynamically via runtime.Services.
func NewSearchService(paragraphs driven.ParagraphStore, services *runtime.Services) driving.SearchService {
	return &searchService{
		paragraphs: paragraphs,
		services:   services,
	}
}

// Search ranks paragraphs against the query with the selected engine and
// groups the matches by clip. Both engines produce the same result shape.
func (s *searchService) Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error) {
	start := time.Now()

	if opts.Mode == "" {
		opts.Mode = domain.SearchModeLexical
	}

	// A blank query is a valid request with an explicit empty answer.
	query = strings.TrimSpace(query)
	if query == "" {
		result := domain.EmptyQueryResult(opts.Mode)
		result.Took = time.Since(start)
		return result, nil
	}

	var ranked []*domain.RankedParagraph
	var err error

	switch opts.Mode {
	case domain.SearchModeLexical:
		ranked, err = s.paragraphs.SearchText(ctx, query, opts.Limit)
	case domain.SearchModeVector:
		ranked, err = s.vectorSearch(ctx, query, opts.Limit)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Query:   query,
		Mode:    opts.Mode,
		Results: domain.GroupByClip(ranked),
		Took:    time.Since(start),
	}, nil
}

func (s *searchService) vectorSearch(ctx context.Context, query string, limit int) ([]*domain.RankedParagraph, error) {
	embeddingService := s.services.EmbeddingService()
	if embeddingService == nil {
		return nil, domain.ErrServiceUnavailable
	}

	embedding, err := embeddingService.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	if limit <= 0 {
		limit = domain.DefaultVectorLimit
	}
	return s.paragraphs.NearestByEmbedding(ctx, embedding, limit)
}
