package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// MockParagraphStore is a mock implementation of ParagraphStore for testing.
// SearchText does naive substring matching; NearestByEmbedding returns the
// paragraphs in a caller-seeded order so ranking can be controlled per test.
type MockParagraphStore struct {
	mu         sync.RWMutex
	paragraphs map[string]*domain.Paragraph
	byClip     map[string][]*domain.Paragraph

	// Clips lets search results join paragraphs to their clips.
	Clips map[string]*domain.Clip

	// NearestResults, when set, is returned verbatim by NearestByEmbedding.
	NearestResults []*domain.RankedParagraph
}

// NewMockParagraphStore creates a new MockParagraphStore
func NewMockParagraphStore() *MockParagraphStore {
	return &MockParagraphStore{
		paragraphs: make(map[string]*domain.Paragraph),
		byClip:     make(map[string][]*domain.Paragraph),
		Clips:      make(map[string]*domain.Clip),
	}
}

func (m *MockParagraphStore) SaveBatch(ctx context.Context, paragraphs []*domain.Paragraph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paragraphs {
		m.save(p)
	}
	return nil
}

func (m *MockParagraphStore) save(p *domain.Paragraph) {
	if _, ok := m.paragraphs[p.ID]; !ok {
		m.byClip[p.ClipID] = append(m.byClip[p.ClipID], p)
	}
	m.paragraphs[p.ID] = p
}

func (m *MockParagraphStore) Get(ctx context.Context, id string) (*domain.Paragraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.paragraphs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *MockParagraphStore) GetByClip(ctx context.Context, clipID string) ([]*domain.Paragraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paragraphs := append([]*domain.Paragraph(nil), m.byClip[clipID]...)
	sort.Slice(paragraphs, func(i, j int) bool {
		return paragraphs[i].Start < paragraphs[j].Start
	})
	return paragraphs, nil
}

func (m *MockParagraphStore) GetWithoutEmbedding(ctx context.Context, clipID string, limit int) ([]*domain.Paragraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Paragraph
	for _, p := range m.paragraphs {
		if p.Embedding != nil {
			continue
		}
		if clipID != "" && p.ClipID != clipID {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockParagraphStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.paragraphs[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Embedding = embedding
	return nil
}

func (m *MockParagraphStore) RelabelParagraph(ctx context.Context, clipID, paragraphID, newLabel string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.paragraphs[paragraphID]
	if !ok || p.ClipID != clipID {
		return 0, domain.ErrNotFound
	}
	p.Speaker = newLabel
	return 1, nil
}

func (m *MockParagraphStore) RelabelSpeaker(ctx context.Context, clipID, oldLabel, newLabel string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.byClip[clipID] {
		if p.Speaker == oldLabel {
			p.Speaker = newLabel
			count++
		}
	}
	return count, nil
}

func (m *MockParagraphStore) DistinctSpeakers(ctx context.Context, clipID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var speakers []string
	for _, p := range m.byClip[clipID] {
		if !seen[p.Speaker] {
			seen[p.Speaker] = true
			speakers = append(speakers, p.Speaker)
		}
	}
	sort.Strings(speakers)
	return speakers, nil
}

func (m *MockParagraphStore) SearchText(ctx context.Context, query string, limit int) ([]*domain.RankedParagraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ranked []*domain.RankedParagraph
	needle := strings.ToLower(query)
	for _, p := range m.paragraphs {
		if !strings.Contains(strings.ToLower(p.FullTranscription), needle) {
			continue
		}
		ranked = append(ranked, &domain.RankedParagraph{
			Paragraph: p,
			Clip:      m.Clips[p.ClipID],
			Score:     1,
		})
		if limit > 0 && len(ranked) >= limit {
			break
		}
	}
	return ranked, nil
}

func (m *MockParagraphStore) NearestByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*domain.RankedParagraph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.NearestResults
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Helper methods for testing

func (m *MockParagraphStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paragraphs = make(map[string]*domain.Paragraph)
	m.byClip = make(map[string][]*domain.Paragraph)
	m.Clips = make(map[string]*domain.Clip)
	m.NearestResults = nil
}
