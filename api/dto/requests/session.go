// ABOUTME: Request DTOs for editor session endpoints
// ABOUTME: Huma tags describe validation; defaults are applied by the handlers

package requests

// CreateSessionRequest opens an editor session
type CreateSessionRequest struct {
	// SiteID opens an existing site; empty starts a new one
	SiteID     string `json:"siteId,omitempty" maxLength:"64" doc:"Existing site to edit"`
	AuthorName string `json:"authorName,omitempty" maxLength:"200" doc:"Display name stored with saved sites"`
	// Document replaces the starter document of a new site
	Document string `json:"document,omitempty" doc:"Initial HTML for a new site"`
}

// SourceRequest carries a code-mode edit
type SourceRequest struct {
	Source string `json:"source" doc:"Full HTML document as typed in the code editor"`
}

// MetaRequest updates the site metadata edited next to the document
type MetaRequest struct {
	Title               string `json:"title" maxLength:"200"`
	Description         string `json:"description" maxLength:"2000"`
	Prompt              string `json:"prompt,omitempty" maxLength:"8000"`
	IsPublic            bool   `json:"isPublic"`
	AllowSourceDownload bool   `json:"allowSourceDownload"`
}

// ModeRequest switches the editor tab and/or the visual edit toggle
type ModeRequest struct {
	Mode   string `json:"mode,omitempty" enum:"code,preview" doc:"Editor tab"`
	Visual *bool  `json:"visual,omitempty" doc:"Visual edit mode"`
}

// FontRequest is an embedded font registration
type FontRequest struct {
	Name       string `json:"name" minLength:"1" maxLength:"100"`
	SourceData string `json:"sourceData" doc:"data: URI of the font file"`
}

// MutationRequest is a tagged mutation. Kind selects which other fields apply.
type MutationRequest struct {
	Kind       string            `json:"kind" enum:"text,style,image,remove_background,register_font,insert_image,move_image"`
	Selector   string            `json:"selector,omitempty" maxLength:"2048"`
	Text       *string           `json:"text,omitempty" doc:"text: replacement text"`
	Properties map[string]string `json:"properties,omitempty" doc:"style: declarations, empty values remove"`
	DataURI    string            `json:"dataUri,omitempty" doc:"image, insert_image: data: URI"`
	Font       *FontRequest      `json:"font,omitempty" doc:"register_font: the face to embed"`
	X          float64           `json:"x,omitempty" doc:"insert_image: left offset in px"`
	Y          float64           `json:"y,omitempty" doc:"insert_image: top offset in px"`
	Left       float64           `json:"left,omitempty" doc:"move_image: left offset in px"`
	Top        float64           `json:"top,omitempty" doc:"move_image: top offset in px"`
}

// UploadRequest carries an uploaded file as base64
type UploadRequest struct {
	Filename string `json:"filename,omitempty" maxLength:"255"`
	Data     []byte `json:"data" doc:"File contents, base64 encoded"`
}

// GenerateRequest starts an AI generation
type GenerateRequest struct {
	Prompt string `json:"prompt" minLength:"1" maxLength:"8000"`
	Model  string `json:"model,omitempty" maxLength:"100"`
}

// ListSitesRequest holds the gallery query
type ListSitesRequest struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
}
