package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/theptrk/word-steno/internal/core/domain"
)

// MockClipStore is a mock implementation of ClipStore for testing
type MockClipStore struct {
	mu      sync.RWMutex
	clips   map[string]*domain.Clip
	byVideo map[string]*domain.Clip

	// Paragraphs and Chapters record what SaveIngestion received, keyed by
	// clip ID, so services can assert on transactional persistence.
	Paragraphs map[string][]*domain.Paragraph
	Chapters   map[string][]*domain.Chapter

	failNext error
}

// NewMockClipStore creates a new MockClipStore
func NewMockClipStore() *MockClipStore {
	return &MockClipStore{
		clips:      make(map[string]*domain.Clip),
		byVideo:    make(map[string]*domain.Clip),
		Paragraphs: make(map[string][]*domain.Paragraph),
		Chapters:   make(map[string][]*domain.Chapter),
	}
}

func (m *MockClipStore) Save(ctx context.Context, clip *domain.Clip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.clips[clip.ID] = clip
	if clip.VideoID != "" {
		m.byVideo[clip.VideoID] = clip
	}
	return nil
}

func (m *MockClipStore) SaveIngestion(ctx context.Context, clip *domain.Clip, paragraphs []*domain.Paragraph, chapters []*domain.Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.clips[clip.ID] = clip
	if clip.VideoID != "" {
		m.byVideo[clip.VideoID] = clip
	}
	m.Paragraphs[clip.ID] = paragraphs
	m.Chapters[clip.ID] = chapters
	return nil
}

func (m *MockClipStore) Get(ctx context.Context, id string) (*domain.Clip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clip, ok := m.clips[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clip, nil
}

func (m *MockClipStore) GetByVideoID(ctx context.Context, videoID string) (*domain.Clip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clip, ok := m.byVideo[videoID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clip, nil
}

func (m *MockClipStore) List(ctx context.Context, limit, offset int) ([]*domain.Clip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	clips := m.sortedClips()
	return paginateClips(clips, limit, offset), nil
}

func (m *MockClipStore) ListByChannel(ctx context.Context, channelTitle string, limit, offset int) ([]*domain.Clip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var clips []*domain.Clip
	for _, clip := range m.clips {
		if clip.ChannelTitle == channelTitle {
			clips = append(clips, clip)
		}
	}
	// Most recently published first; clips without a publish date sort last.
	sort.Slice(clips, func(i, j int) bool {
		pi, pj := clips[i].PublishedAt, clips[j].PublishedAt
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return pi.After(*pj)
		}
	})
	return paginateClips(clips, limit, offset), nil
}

func (m *MockClipStore) DistinctChannels(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var channels []string
	for _, clip := range m.clips {
		if clip.ChannelTitle != "" && !seen[clip.ChannelTitle] {
			seen[clip.ChannelTitle] = true
			channels = append(channels, clip.ChannelTitle)
		}
	}
	sort.Strings(channels)
	return channels, nil
}

func (m *MockClipStore) UpdateVideoID(ctx context.Context, id, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clip, ok := m.clips[id]
	if !ok {
		return domain.ErrNotFound
	}
	clip.VideoID = videoID
	m.byVideo[videoID] = clip
	return nil
}

func (m *MockClipStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clip, ok := m.clips[id]
	if !ok {
		return domain.ErrNotFound
	}
	if clip.VideoID != "" {
		delete(m.byVideo, clip.VideoID)
	}
	delete(m.clips, id)
	delete(m.Paragraphs, id)
	delete(m.Chapters, id)
	return nil
}

func (m *MockClipStore) sortedClips() []*domain.Clip {
	clips := make([]*domain.Clip, 0, len(m.clips))
	for _, clip := range m.clips {
		clips = append(clips, clip)
	}
	sort.Slice(clips, func(i, j int) bool {
		return clips[i].CreatedAt.After(clips[j].CreatedAt)
	})
	return clips
}

func paginateClips(clips []*domain.Clip, limit, offset int) []*domain.Clip {
	if offset >= len(clips) {
		return []*domain.Clip{}
	}
	end := len(clips)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return clips[offset:end]
}

// Helper methods for testing

func (m *MockClipStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockClipStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clips = make(map[string]*domain.Clip)
	m.byVideo = make(map[string]*domain.Clip)
	m.Paragraphs = make(map[string][]*domain.Paragraph)
	m.Chapters = make(map[string][]*domain.Chapter)
}
