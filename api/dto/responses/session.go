// ABOUTME: Response DTOs for editor session and site endpoints
// ABOUTME: Sites are exposed without their document; sessions as editor state snapshots

package responses

import (
	"time"

	"hostgenie-api/core/editor"
)

// SiteResponse is a site's public metadata
type SiteResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	AuthorName          string    `json:"authorName,omitempty"`
	URL                 string    `json:"url"`
	Views               int64     `json:"views"`
	IsPublic            bool      `json:"isPublic"`
	AllowSourceDownload bool      `json:"allowSourceDownload"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// SiteListResponse is the public gallery
type SiteListResponse struct {
	Sites []SiteResponse `json:"sites"`
	Count int            `json:"count"`
}

// SaveResponse is returned after persisting a session's document
type SaveResponse struct {
	Site  SiteResponse `json:"site"`
	State editor.State `json:"state"`
}

// FontUploadResponse reports the family value selecting the new font
type FontUploadResponse struct {
	Family string       `json:"family"`
	State  editor.State `json:"state"`
}

// BridgeResponse reports whether a relayed message was acted on
type BridgeResponse struct {
	Handled bool         `json:"handled"`
	State   editor.State `json:"state"`
}

// GenerateResponse acknowledges a background generation
type GenerateResponse struct {
	Accepted bool         `json:"accepted"`
	State    editor.State `json:"state"`
}
