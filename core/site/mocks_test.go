package site

import (
	"context"
	"errors"
	"sort"
	"sync"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

// mockSiteStorage is a map-backed SiteStorage
type mockSiteStorage struct {
	mu            sync.Mutex
	sites         map[string]*domain.Site
	failSave      bool
	failIncrement bool
}

func newMockSiteStorage() *mockSiteStorage {
	return &mockSiteStorage{sites: map[string]*domain.Site{}}
}

func (m *mockSiteStorage) Save(ctx context.Context, site *domain.Site) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("disk full")
	}
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
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncrement {
		return 0, errors.New("locked")
	}
	s, ok := m.sites[id]
	if !ok {
		return 0, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	s.Views++
	return s.Views, nil
}

func (m *mockSiteStorage) ListPublic(ctx context.Context, limit int) ([]*domain.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Site
	for _, s := range m.sites {
		if s.IsPublic {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockSiteStorage) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sites, id)
	return nil
}
