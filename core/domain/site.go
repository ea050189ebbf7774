// ABOUTME: Site domain model represents a hosted single-document website
// ABOUTME: Sites are replaced whole on every save and served under a short identifier

package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSiteTitle is used when neither the document nor the author provides a title
const DefaultSiteTitle = "Untitled site"

// Site is a persisted, shareable HTML document
type Site struct {
	ID                  string
	OwnerID             string
	AuthorName          string
	Title               string
	Description         string
	HTMLContent         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Views               int64
	IsPublic            bool
	AllowSourceDownload bool
}

// NewSiteID returns a short opaque identifier suitable for share links
func NewSiteID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// SiteMeta is the author-controlled metadata edited alongside a document
type SiteMeta struct {
	Title               string `json:"title"`
	Description         string `json:"description"`
	Prompt              string `json:"prompt"`
	IsPublic            bool   `json:"isPublic"`
	AllowSourceDownload bool   `json:"allowSourceDownload"`
}

// DefaultSiteMeta is the metadata a new site starts with: listed publicly and
// with its source downloadable.
func DefaultSiteMeta() SiteMeta {
	return SiteMeta{IsPublic: true, AllowSourceDownload: true}
}
