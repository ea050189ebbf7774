// ABOUTME: In-memory site storage for development and tests
// ABOUTME: Sites are copied on the way in and out so callers never share state

package memory

import (
	"context"
	"sort"
	"sync"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

// SiteStore implements interfaces.SiteStorage on a map
type SiteStore struct {
	mu    sync.RWMutex
	sites map[string]*domain.Site
}

// NewSiteStore creates an empty store
func NewSiteStore() *SiteStore {
	return &SiteStore{sites: make(map[string]*domain.Site)}
}

// Save inserts or replaces a site
func (s *SiteStore) Save(ctx context.Context, site *domain.Site) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := *site
	s.mu.Lock()
	s.sites[site.ID] = &c
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the site
func (s *SiteStore) Get(ctx context.Context, id string) (*domain.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	site, ok := s.sites[id]
	if !ok {
		return nil, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	c := *site
	return &c, nil
}

// IncrementViews bumps the view counter
func (s *SiteStore) IncrementViews(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	site, ok := s.sites[id]
	if !ok {
		return 0, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	site.Views++
	return site.Views, nil
}

// ListPublic returns public sites, most recently updated first
func (s *SiteStore) ListPublic(ctx context.Context, limit int) ([]*domain.Site, error) {
	s.mu.RLock()
	out := make([]*domain.Site, 0, len(s.sites))
	for _, site := range s.sites {
		if site.IsPublic {
			c := *site
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a site
func (s *SiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sites, id)
	s.mu.Unlock()
	return nil
}
