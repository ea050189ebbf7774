// ABOUTME: Site handlers: metadata and gallery through Huma, public serving on the raw router
// ABOUTME: Hosted documents are returned verbatim with no-cache and same-origin framing headers

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"hostgenie-api/api/dto/mappers"
	"hostgenie-api/api/dto/requests"
	"hostgenie-api/api/dto/responses"
	"hostgenie-api/api/middleware"
	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/pkg/featureflags"
)

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Site not found</title></head>
<body style="font-family:sans-serif;text-align:center;padding:4rem">
<h1>404</h1>
<p>This site does not exist or has been removed.</p>
</body>
</html>`

// SiteService interface defines the methods needed from the site service
type SiteService interface {
	Get(ctx context.Context, id string) (*domain.Site, error)
	Serve(ctx context.Context, id string) (*domain.Site, error)
	Source(ctx context.Context, id string) (filename, content string, err error)
	ListPublic(ctx context.Context, limit int) ([]*domain.Site, error)
	Delete(ctx context.Context, id, owner string) error
}

// SiteHandler handles site requests
type SiteHandler struct {
	sites  SiteService
	flags  featureflags.Manager
	appURL string
	logger interfaces.Logger
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(sites SiteService, flags featureflags.Manager, appURL string, logger interfaces.Logger) *SiteHandler {
	if flags == nil {
		flags = featureflags.NewStaticManager(featureflags.Defaults())
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &SiteHandler{sites: sites, flags: flags, appURL: appURL, logger: logger}
}

// RegisterRoutes registers the JSON site routes
func (h *SiteHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSite",
		Method:      http.MethodGet,
		Path:        "/sites/{id}",
		Summary:     "Get site metadata",
		Description: "Private sites are only visible to their owner",
		Tags:        []string{"Sites"},
	}, h.GetSite)

	huma.Register(api, huma.Operation{
		OperationID: "listSites",
		Method:      http.MethodGet,
		Path:        "/sites",
		Summary:     "List public sites",
		Description: "Most recently updated public sites first",
		Tags:        []string{"Sites"},
	}, h.ListSites)

	huma.Register(api, huma.Operation{
		OperationID: "deleteSite",
		Method:      http.MethodDelete,
		Path:        "/sites/{id}",
		Summary:     "Delete a site",
		Tags:        []string{"Sites"},
	}, h.DeleteSite)
}

// RegisterPublicRoutes mounts the hosted document routes
func (h *SiteHandler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/s/{id}", h.ServeSite)
	router.Get("/s/{id}/source", h.DownloadSource)
}

// SiteInput identifies a site
type SiteInput struct {
	ID     string `path:"id" maxLength:"64"`
	UserID string `header:"X-User-ID"`
}

// SiteOutput carries site metadata
type SiteOutput struct {
	Body responses.SiteResponse
}

// GetSite returns site metadata
func (h *SiteHandler) GetSite(ctx context.Context, input *SiteInput) (*SiteOutput, error) {
	site, err := h.sites.Get(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	if !site.IsPublic && site.OwnerID != input.UserID {
		return nil, toHumaError(&coreerrors.NotFoundError{Resource: "site", ID: input.ID})
	}
	return &SiteOutput{Body: mappers.ToSiteResponse(site, h.appURL)}, nil
}

// ListSitesInput defines the input for ListSites
type ListSitesInput struct {
	requests.ListSitesRequest
}

// ListSitesOutput carries the gallery
type ListSitesOutput struct {
	Body responses.SiteListResponse
}

// ListSites returns the public gallery
func (h *SiteHandler) ListSites(ctx context.Context, input *ListSitesInput) (*ListSitesOutput, error) {
	sites, err := h.sites.ListPublic(ctx, input.Limit)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ListSitesOutput{Body: mappers.ToSiteList(sites, h.appURL)}, nil
}

// DeleteSite removes a site the caller owns
func (h *SiteHandler) DeleteSite(ctx context.Context, input *SiteInput) (*struct{}, error) {
	if input.UserID == "" {
		return nil, huma.Error401Unauthorized("X-User-ID header is required")
	}
	if err := h.sites.Delete(ctx, input.ID, input.UserID); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}

func writeNotFoundPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(notFoundPage))
}

// ServeSite returns the hosted document verbatim and counts the view
func (h *SiteHandler) ServeSite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	site, err := h.sites.Serve(r.Context(), id)
	if err != nil {
		if !coreerrors.IsNotFound(err) {
			h.logger.Error("Failed to serve site", map[string]interface{}{
				"site_id":    id,
				"request_id": middleware.GetRequestID(r.Context()),
				"error":      err.Error(),
			})
		}
		writeNotFoundPage(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(site.HTMLContent))
}

// DownloadSource returns the document as an attachment when the author allows it
func (h *SiteHandler) DownloadSource(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsEnabled(r.Context(), featureflags.SourceDownloadEnabled) {
		http.Error(w, "source download is disabled", http.StatusForbidden)
		return
	}

	filename, content, err := h.sites.Source(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
	case coreerrors.IsForbidden(err):
		http.Error(w, "the author has not allowed source download", http.StatusForbidden)
		return
	default:
		writeNotFoundPage(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}
