// ABOUTME: Mappers between session DTOs and core domain types
// ABOUTME: Turns tagged mutation requests into typed mutations and sites into responses

package mappers

import (
	"strings"

	"hostgenie-api/api/dto/requests"
	"hostgenie-api/api/dto/responses"
	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

// ToMutation converts a tagged mutation request into its typed variant
func ToMutation(req requests.MutationRequest) (domain.Mutation, error) {
	sel := strings.TrimSpace(req.Selector)
	needSelector := func() error {
		if sel == "" {
			return &coreerrors.ValidationError{Field: "selector", Message: "selector is required for " + req.Kind}
		}
		return nil
	}

	switch domain.MutationKind(req.Kind) {
	case domain.MutationText:
		if err := needSelector(); err != nil {
			return nil, err
		}
		if req.Text == nil {
			return nil, &coreerrors.ValidationError{Field: "text", Message: "text is required"}
		}
		return domain.TextMutation{Selector: sel, Text: *req.Text}, nil

	case domain.MutationStyle:
		if err := needSelector(); err != nil {
			return nil, err
		}
		if len(req.Properties) == 0 {
			return nil, &coreerrors.ValidationError{Field: "properties", Message: "at least one property is required"}
		}
		return domain.StyleMutation{Selector: sel, Properties: req.Properties}, nil

	case domain.MutationImage:
		if err := needSelector(); err != nil {
			return nil, err
		}
		return domain.ImageMutation{Selector: sel, DataURI: req.DataURI}, nil

	case domain.MutationRemoveBackground:
		if err := needSelector(); err != nil {
			return nil, err
		}
		return domain.RemoveBackgroundMutation{Selector: sel}, nil

	case domain.MutationRegisterFont:
		if req.Font == nil {
			return nil, &coreerrors.ValidationError{Field: "font", Message: "font is required"}
		}
		return domain.RegisterFontMutation{Font: domain.FontRegistration{
			Name:       strings.TrimSpace(req.Font.Name),
			SourceData: req.Font.SourceData,
		}}, nil

	case domain.MutationInsertImage:
		return domain.InsertImageMutation{DataURI: req.DataURI, X: req.X, Y: req.Y}, nil

	case domain.MutationMoveImage:
		if err := needSelector(); err != nil {
			return nil, err
		}
		return domain.MoveImageMutation{Selector: sel, Left: req.Left, Top: req.Top}, nil
	}

	return nil, &coreerrors.ValidationError{Field: "kind", Message: "unknown mutation kind " + req.Kind}
}

// ToMeta converts a metadata request
func ToMeta(req requests.MetaRequest) domain.SiteMeta {
	return domain.SiteMeta{
		Title:               strings.TrimSpace(req.Title),
		Description:         strings.TrimSpace(req.Description),
		Prompt:              req.Prompt,
		IsPublic:            req.IsPublic,
		AllowSourceDownload: req.AllowSourceDownload,
	}
}

// SiteURL is the public address of a site
func SiteURL(appURL, id string) string {
	return strings.TrimSuffix(appURL, "/") + "/s/" + id
}

// ToSiteResponse converts a site to its public metadata
func ToSiteResponse(site *domain.Site, appURL string) responses.SiteResponse {
	return responses.SiteResponse{
		ID:                  site.ID,
		Title:               site.Title,
		Description:         site.Description,
		AuthorName:          site.AuthorName,
		URL:                 SiteURL(appURL, site.ID),
		Views:               site.Views,
		IsPublic:            site.IsPublic,
		AllowSourceDownload: site.AllowSourceDownload,
		CreatedAt:           site.CreatedAt,
		UpdatedAt:           site.UpdatedAt,
	}
}

// ToSiteList converts the public gallery
func ToSiteList(sites []*domain.Site, appURL string) responses.SiteListResponse {
	out := responses.SiteListResponse{Sites: make([]responses.SiteResponse, 0, len(sites))}
	for _, s := range sites {
		out.Sites = append(out.Sites, ToSiteResponse(s, appURL))
	}
	out.Count = len(out.Sites)
	return out
}
