// ABOUTME: Editor mode definitions shared by the preview renderer and the editor session
// ABOUTME: Code mode edits the raw buffer; preview mode renders the document

package domain

// EditorMode is the active editor tab
type EditorMode string

const (
	ModeCode    EditorMode = "code"
	ModePreview EditorMode = "preview"
)

// Valid reports whether m is a known mode
func (m EditorMode) Valid() bool {
	return m == ModeCode || m == ModePreview
}
