package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/theptrk/word-steno/internal/core/domain"
	"github.com/theptrk/word-steno/internal/core/ports/driven"
)

// MockVideoProvider is a mock implementation of VideoProvider for testing
type MockVideoProvider struct {
	mu       sync.Mutex
	videos   map[string]*driven.VideoMetadata // keyed by URL
	audio    map[string][]byte
	failNext error
}

// NewMockVideoProvider creates a new MockVideoProvider
func NewMockVideoProvider() *MockVideoProvider {
	return &MockVideoProvider{
		videos: make(map[string]*driven.VideoMetadata),
		audio:  make(map[string][]byte),
	}
}

// AddVideo registers a video the provider will resolve
func (m *MockVideoProvider) AddVideo(meta *driven.VideoMetadata, audio []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[meta.URL] = meta
	m.audio[meta.URL] = audio
}

func (m *MockVideoProvider) Lookup(ctx context.Context, url string) (*driven.VideoMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	meta, ok := m.videos[url]
	if !ok {
		return nil, domain.ErrVideoUnavailable
	}
	return meta, nil
}

func (m *MockVideoProvider) DownloadAudio(ctx context.Context, url string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	audio, ok := m.audio[url]
	if !ok {
		return nil, domain.ErrVideoUnavailable
	}
	return io.NopCloser(bytes.NewReader(audio)), nil
}

func (m *MockVideoProvider) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// MockTranscriber is a mock implementation of Transcriber for testing
type MockTranscriber struct {
	mu         sync.Mutex
	Transcript *driven.Transcript
	Err        error
	Calls      []string // audio URLs received
}

// NewMockTranscriber creates a new MockTranscriber
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioURL string) (*driven.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, audioURL)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Transcript != nil {
		return m.Transcript, nil
	}
	return &driven.Transcript{}, nil
}

// MockObjectStore is a mock implementation of ObjectStore for testing
type MockObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	Err     error
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		objects: make(map[string][]byte),
	}
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *MockObjectStore) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	if _, ok := m.objects[key]; !ok {
		return "", domain.ErrNotFound
	}
	return "https://storage.example.com/signed/" + key, nil
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Object returns the stored bytes for a key, for assertions
func (m *MockObjectStore) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}
