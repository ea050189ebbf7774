// ABOUTME: Storage interfaces for persisting hosted sites
// ABOUTME: Saves replace the whole document atomically; the schema is up to the backend

package interfaces

import (
	"context"

	"hostgenie-api/core/domain"
)

// SiteStorage defines the interface for site persistence
type SiteStorage interface {
	// Save inserts or replaces a site as a whole
	Save(ctx context.Context, site *domain.Site) error

	// Get retrieves a site by ID; a missing site is a NotFoundError
	Get(ctx context.Context, id string) (*domain.Site, error)

	// IncrementViews bumps the view counter and returns the new value
	IncrementViews(ctx context.Context, id string) (int64, error)

	// ListPublic returns the most recently updated public sites
	ListPublic(ctx context.Context, limit int) ([]*domain.Site, error)

	// Delete removes a site; deleting a missing site is not an error
	Delete(ctx context.Context, id string) error
}
