package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// MockChapterStore is a mock implementation of ChapterStore for testing
type MockChapterStore struct {
	mu     sync.RWMutex
	byClip map[string][]*domain.Chapter
}

// NewMockChapterStore creates a new MockChapterStore
func NewMockChapterStore() *MockChapterStore {
	return &MockChapterStore{
		byClip: make(map[string][]*domain.Chapter),
	}
}

func (m *MockChapterStore) SaveBatch(ctx context.Context, chapters []*domain.Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chapters {
		m.byClip[c.ClipID] = append(m.byClip[c.ClipID], c)
	}
	return nil
}

func (m *MockChapterStore) GetByClip(ctx context.Context, clipID string) ([]*domain.Chapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	chapters := append([]*domain.Chapter(nil), m.byClip[clipID]...)
	sort.Slice(chapters, func(i, j int) bool {
		return chapters[i].Start < chapters[j].Start
	})
	return chapters, nil
}

func (m *MockChapterStore) DeleteByClip(ctx context.Context, clipID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byClip, clipID)
	return nil
}

// Helper methods for testing

func (m *MockChapterStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byClip = make(map[string][]*domain.Chapter)
}
