// ABOUTME: Public types for the HostGenie library
// ABOUTME: Re-exports the domain values callers build mutations and read sites with

package hostgenie

import (
	"hostgenie-api/core/domain"
	"hostgenie-api/core/editor"
	"hostgenie-api/core/panel"
)

// Editor is one user's editing session
type Editor = editor.Session

// EditorState is a snapshot of an Editor
type EditorState = editor.State

// Mutation is a typed edit applied to a document
type Mutation = domain.Mutation

// Mutation variants
type (
	TextMutation             = domain.TextMutation
	StyleMutation            = domain.StyleMutation
	ImageMutation            = domain.ImageMutation
	RemoveBackgroundMutation = domain.RemoveBackgroundMutation
	RegisterFontMutation     = domain.RegisterFontMutation
	InsertImageMutation      = domain.InsertImageMutation
	MoveImageMutation        = domain.MoveImageMutation
	FontRegistration         = domain.FontRegistration
)

// Site is a saved, hosted document
type Site = domain.Site

// SiteMeta is the user-editable metadata of a site
type SiteMeta = domain.SiteMeta

// DefaultSiteMeta returns the metadata new sites get when none is given:
// public and with source download allowed, the same as a new editor session.
func DefaultSiteMeta() SiteMeta {
	return domain.DefaultSiteMeta()
}

// Selection describes the element currently being edited
type Selection = domain.Selection

// PanelValues are the editable property panel values
type PanelValues = panel.Values

// Editor modes
const (
	ModeCode    = domain.ModeCode
	ModePreview = domain.ModePreview
)

// SessionOptions describe an editor being opened
type SessionOptions struct {
	OwnerID    string
	AuthorName string
	// SiteID reopens a saved site; empty starts a new one
	SiteID string
	// Document replaces the starter document for new sites
	Document string
	// Autosave keeps a debounced draft of new sites in the cache
	Autosave bool
}
