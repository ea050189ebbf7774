// ABOUTME: Draft persistence stores the lightweight fields of unsaved sites in the cache
// ABOUTME: Storage failures are logged and swallowed so editing is never interrupted

package draft

import (
	"context"
	"encoding/json"
	"time"

	"hostgenie-api/core/domain"
	"hostgenie-api/core/interfaces"
)

// DefaultTTL keeps drafts for a week
const DefaultTTL = 7 * 24 * time.Hour

const keyPrefix = "draft:"

// Service saves, loads and clears drafts keyed by owner
type Service struct {
	cache  interfaces.Cache
	logger interfaces.Logger
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a draft service on the dependencies' cache
func NewService(deps interfaces.Dependencies, ttl time.Duration) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		cache:  deps.Cache,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

func key(owner string) string {
	return keyPrefix + owner
}

// Save stores d for owner, stamping SavedAt.
// The error is returned for callers that care; it has already been logged.
func (s *Service) Save(ctx context.Context, owner string, d domain.Draft) error {
	if s.cache == nil {
		return nil
	}
	d.SavedAt = s.now().UTC()

	data, err := json.Marshal(d)
	if err != nil {
		s.logger.Warn("Failed to encode draft", map[string]interface{}{
			"owner_id": owner,
			"error":    err.Error(),
		})
		return err
	}

	if err := s.cache.Set(ctx, key(owner), data, s.ttl); err != nil {
		s.logger.Warn("Failed to save draft", map[string]interface{}{
			"owner_id": owner,
			"error":    err.Error(),
		})
		return err
	}

	s.logger.Debug("Draft saved", map[string]interface{}{
		"owner_id": owner,
		"size":     len(data),
	})
	return nil
}

// Load returns the owner's draft. Missing, unreadable or empty drafts report false.
func (s *Service) Load(ctx context.Context, owner string) (*domain.Draft, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key(owner))
	if err != nil {
		s.logger.Debug("No draft loaded", map[string]interface{}{
			"owner_id": owner,
			"error":    err.Error(),
		})
		return nil, false
	}

	var d domain.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		s.logger.Warn("Discarding unreadable draft", map[string]interface{}{
			"owner_id": owner,
			"error":    err.Error(),
		})
		return nil, false
	}
	if d.IsEmpty() {
		return nil, false
	}
	return &d, true
}

// Clear removes the owner's draft
func (s *Service) Clear(ctx context.Context, owner string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, key(owner)); err != nil {
		s.logger.Warn("Failed to clear draft", map[string]interface{}{
			"owner_id": owner,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}
