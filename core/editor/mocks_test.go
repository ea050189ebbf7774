package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type mockSiteStorage struct {
	mu    sync.Mutex
	sites map[string]*domain.Site
}

func newMockSiteStorage() *mockSiteStorage {
	return &mockSiteStorage{sites: map[string]*domain.Site{}}
}

func (m *mockSiteStorage) Save(ctx context.Context, site *domain.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *site
	m.sites[site.ID] = &c
	return nil
}

func (m *mockSiteStorage) Get(ctx context.Context, id string) (*domain.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	c := *s
	return &c, nil
}

func (m *mockSiteStorage) IncrementViews(ctx context.Context, id string) (int64, error) {
	return 0, nil
}

func (m *mockSiteStorage) ListPublic(ctx context.Context, limit int) ([]*domain.Site, error) {
	return nil, nil
}

func (m *mockSiteStorage) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sites, id)
	return nil
}

type mockGenerator struct {
	generateFunc func(ctx context.Context, prompt, model string) (string, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt, model string) (string, error) {
	return m.generateFunc(ctx, prompt, model)
}
