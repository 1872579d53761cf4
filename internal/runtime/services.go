package runtime

import (
	"context"
	"sync"

	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// Services holds references to dynamically configurable AI services.
// Embedding and summarization can be swapped at runtime via API, so search
// and ingestion read them through this registry rather than holding them.
// Thread-safe for concurrent access.
type Services struct {
	mu sync.RWMutex

	embeddingService driven.EmbeddingService
	summarizer       driven.Summarizer
}

// NewServices creates a new Services registry
func NewServices() *Services {
	return &Services{}
}

// EmbeddingService returns the current embedding service (may be nil)
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.embeddingService
}

// Summarizer returns the current summarizer (may be nil)
func (s *Services) Summarizer() driven.Summarizer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summarizer
}

// SetEmbeddingService updates the embedding service.
// Closes the old service if present.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
	}
	s.embeddingService = svc
}

// SetSummarizer updates the summarizer.
// Closes the old service if present.
func (s *Services) SetSummarizer(svc driven.Summarizer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summarizer != nil {
		_ = s.summarizer.Close()
	}
	s.summarizer = svc
}

// ValidateAndSetEmbedding validates connectivity before setting the
// embedding service
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}

	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetEmbeddingService(svc)
	return nil
}

// Close shuts down all services
func (s *Services) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.embeddingService != nil {
		_ = s.embeddingService.Close()
		s.embeddingService = nil
	}
	if s.summarizer != nil {
		_ = s.summarizer.Close()
		s.summarizer = nil
	}
	return nil
}
