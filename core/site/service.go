// ABOUTME: Site service persists edited documents and serves them under share links
// ABOUTME: Applies footer injection and title resolution on save, counts views on serve

package site

import (
	"context"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/footer"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/upload"
	htmlutil "hostgenie-api/pkg/utils/html"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	maxDescriptionLen = 500
)

// SaveRequest carries one artifact save
type SaveRequest struct {
	// ID is empty for a new site
	ID         string
	OwnerID    string
	AuthorName string
	Meta       domain.SiteMeta
	HTML       string
}

// Service handles site persistence through the configured storage
type Service struct {
	deps   interfaces.Dependencies
	footer footer.Footer
	now    func() time.Time
}

// NewService creates a site service
func NewService(deps interfaces.Dependencies, f footer.Footer) *Service {
	if deps.Logger == nil {
		deps.Logger = interfaces.NopLogger{}
	}
	return &Service{deps: deps, footer: f, now: time.Now}
}

// Save stores the document as a whole, injecting the footer and resolving the title
func (s *Service) Save(ctx context.Context, req SaveRequest) (*domain.Site, error) {
	if s.deps.Sites == nil {
		return nil, &coreerrors.ExternalAPIError{StatusCode: 503, Message: "site storage not configured", API: "storage"}
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, &coreerrors.ValidationError{Field: "html", Message: "document is empty"}
	}
	if req.OwnerID == "" {
		return nil, &coreerrors.ValidationError{Field: "owner", Message: "owner is required"}
	}

	now := s.now().UTC()
	site := &domain.Site{
		ID:        req.ID,
		CreatedAt: now,
	}

	if req.ID != "" {
		existing, err := s.deps.Sites.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if existing.OwnerID != req.OwnerID {
			return nil, &coreerrors.ForbiddenError{Resource: "site", Reason: "owned by another user"}
		}
		site.CreatedAt = existing.CreatedAt
		site.Views = existing.Views
	} else {
		site.ID = domain.NewSiteID()
	}

	site.OwnerID = req.OwnerID
	site.AuthorName = htmlutil.StripHTML(req.AuthorName)
	site.Title = ResolveTitle(req.Meta.Title, req.HTML)
	site.Description = htmlutil.Truncate(htmlutil.StripHTML(req.Meta.Description), maxDescriptionLen)
	site.HTMLContent = s.footer.Inject(req.HTML)
	site.UpdatedAt = now
	site.IsPublic = req.Meta.IsPublic
	site.AllowSourceDownload = req.Meta.AllowSourceDownload

	if err := s.deps.Sites.Save(ctx, site); err != nil {
		s.deps.Logger.Error("Failed to save site", map[string]interface{}{
			"site_id":  site.ID,
			"owner_id": site.OwnerID,
			"error":    err.Error(),
		})
		return nil, coreerrors.WrapError(err, "failed to save site")
	}

	s.deps.Logger.Info("Site saved", map[string]interface{}{
		"site_id":  site.ID,
		"owner_id": site.OwnerID,
		"bytes":    len(site.HTMLContent),
		"public":   site.IsPublic,
	})
	return site, nil
}

// ResolveTitle picks the author's title, then the document's <title>, then the default
func ResolveTitle(provided, doc string) string {
	if t := htmlutil.StripHTML(provided); t != "" {
		return htmlutil.Truncate(t, 200)
	}
	if t := upload.ExtractTitle(doc); t != "" {
		return t
	}
	return domain.DefaultSiteTitle
}

// Get returns a site without counting a view
func (s *Service) Get(ctx context.Context, id string) (*domain.Site, error) {
	if s.deps.Sites == nil {
		return nil, &coreerrors.NotFoundError{Resource: "site", ID: id}
	}
	return s.deps.Sites.Get(ctx, id)
}

// Serve returns a site for public display and counts the view.
// A failed counter update is logged; the page is still served.
func (s *Service) Serve(ctx context.Context, id string) (*domain.Site, error) {
	site, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	views, err := s.deps.Sites.IncrementViews(ctx, id)
	if err != nil {
		s.deps.Logger.Warn("Failed to count view", map[string]interface{}{
			"site_id": id,
			"error":   err.Error(),
		})
		return site, nil
	}
	site.Views = views
	return site, nil
}

// Source returns the stored document for download with a filename derived from the title
func (s *Service) Source(ctx context.Context, id string) (filename, content string, err error) {
	site, err := s.Get(ctx, id)
	if err != nil {
		return "", "", err
	}
	if !site.AllowSourceDownload {
		return "", "", &coreerrors.ForbiddenError{Resource: "source", Reason: "the author has not allowed source download"}
	}

	name := slug.Make(site.Title)
	if name == "" {
		name = site.ID
	}
	return name + ".html", site.HTMLContent, nil
}

// ListPublic returns the most recently updated public sites
func (s *Service) ListPublic(ctx context.Context, limit int) ([]*domain.Site, error) {
	if s.deps.Sites == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.deps.Sites.ListPublic(ctx, limit)
}

// Delete removes a site owned by owner
func (s *Service) Delete(ctx context.Context, id, owner string) error {
	site, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if site.OwnerID != owner {
		return &coreerrors.ForbiddenError{Resource: "site", Reason: "owned by another user"}
	}
	return s.deps.Sites.Delete(ctx, id)
}
