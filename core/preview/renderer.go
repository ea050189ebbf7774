// ABOUTME: Live preview renderer keeps the rendered snapshot apart from the authoritative document
// ABOUTME: Produces plain or instrumented preview bytes and the sandbox headers they are served with

// Package preview holds the two representations of the document being edited.
//
// The authoritative document always wins. The rendered snapshot is refreshed from
// it only at checkpoints: a committed mutation, a mode switch or a visual toggle.
// Code-mode typing updates the authoritative document without touching the
// rendered snapshot, so the preview does not reload on every keystroke.
package preview

import (
	_ "embed"
	"regexp"
	"sync"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

// InspectorAttr marks the injected interaction script
const InspectorAttr = "data-hg-inspector"

// SandboxFlags are the iframe sandbox tokens for the preview: scripts run,
// top-level navigation and same-origin access stay denied.
const SandboxFlags = "allow-scripts"

//go:embed inspector.js
var inspectorScript string

var closingBody = regexp.MustCompile(`(?i)</body\s*>`)

// Renderer tracks the authoritative document and the snapshot shown in the preview
type Renderer struct {
	mu                    sync.RWMutex
	authoritativeDocument string
	renderedSnapshot      string
	mode                  domain.EditorMode
	visual                bool
	revision              uint64
}

// NewRenderer creates a renderer in preview mode showing doc
func NewRenderer(doc string) *Renderer {
	return &Renderer{
		authoritativeDocument: doc,
		renderedSnapshot:      doc,
		mode:                  domain.ModePreview,
		revision:              1,
	}
}

// EditSource replaces the authoritative document from a raw code-mode edit.
// The rendered snapshot is left alone.
func (r *Renderer) EditSource(doc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authoritativeDocument = doc
}

// Commit replaces the authoritative document and refreshes the rendered snapshot
func (r *Renderer) Commit(doc string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.authoritativeDocument = doc
	r.syncLocked()
}

// SetMode switches the editor tab and refreshes the rendered snapshot
func (r *Renderer) SetMode(mode domain.EditorMode) error {
	if !mode.Valid() {
		return &coreerrors.ValidationError{Field: "mode", Message: "must be code or preview"}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
	r.syncLocked()
	return nil
}

// SetVisual toggles visual-edit mode and refreshes the rendered snapshot
func (r *Renderer) SetVisual(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visual = on
	r.syncLocked()
}

// Sync refreshes the rendered snapshot from the authoritative document
func (r *Renderer) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncLocked()
}

func (r *Renderer) syncLocked() {
	if r.renderedSnapshot != r.authoritativeDocument {
		r.renderedSnapshot = r.authoritativeDocument
		r.revision++
	}
}

// Authoritative returns the current source of truth
func (r *Renderer) Authoritative() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.authoritativeDocument
}

// Rendered returns the snapshot last shown in the preview
func (r *Renderer) Rendered() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renderedSnapshot
}

// Stale reports whether the authoritative document has moved past the rendered snapshot
func (r *Renderer) Stale() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.renderedSnapshot != r.authoritativeDocument
}

func (r *Renderer) Mode() domain.EditorMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

func (r *Renderer) Visual() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visual
}

// Revision increases every time the rendered snapshot changes
func (r *Renderer) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Instrumented reports whether Content carries the interaction script
func (r *Renderer) Instrumented() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instrumentedLocked()
}

func (r *Renderer) instrumentedLocked() bool {
	return r.visual && r.mode == domain.ModePreview
}

// Content returns the bytes the preview frame should render
func (r *Renderer) Content() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.instrumentedLocked() {
		return Instrument(r.renderedSnapshot)
	}
	return r.renderedSnapshot
}

// Instrument inserts the interaction script before the last closing body tag,
// or appends it when the document has none.
func Instrument(doc string) string {
	tag := `<script ` + InspectorAttr + `>` + inspectorScript + `</script>`

	locs := closingBody.FindAllStringIndex(doc, -1)
	if len(locs) == 0 {
		return doc + tag
	}
	at := locs[len(locs)-1][0]
	return doc[:at] + tag + doc[at:]
}

// SecurityHeaders returns the headers the preview document is served with
func SecurityHeaders() map[string]string {
	return map[string]string{
		"Content-Security-Policy": "sandbox " + SandboxFlags,
		"X-Frame-Options":         "SAMEORIGIN",
		"Cache-Control":           "no-cache, no-store, must-revalidate",
		"Content-Type":            "text/html; charset=utf-8",
	}
}
