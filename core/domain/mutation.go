// ABOUTME: Mutation variants accepted by the document patch engine
// ABOUTME: Each variant carries its own typed payload and reports its kind as a discriminant

package domain

// MutationKind discriminates mutation variants
type MutationKind string

const (
	MutationText             MutationKind = "text"
	MutationStyle            MutationKind = "style"
	MutationImage            MutationKind = "image"
	MutationRemoveBackground MutationKind = "remove_background"
	MutationRegisterFont     MutationKind = "register_font"
	MutationInsertImage      MutationKind = "insert_image"
	MutationMoveImage        MutationKind = "move_image"
)

// Mutation is a structured change request for the authoritative document
type Mutation interface {
	Kind() MutationKind
	// Target returns the selector the mutation resolves, or "" for
	// document-level mutations.
	Target() string
}

// TextMutation replaces the text of the target element
type TextMutation struct {
	Selector string
	Text     string
}

// StyleMutation sets inline style declarations on the target element.
// Keys may be camelCase or CSS property names; an empty value removes the declaration.
type StyleMutation struct {
	Selector   string
	Properties map[string]string
}

// ImageMutation swaps the image source of an <img>, or the background image of any other element
type ImageMutation struct {
	Selector string
	DataURI  string
}

// RemoveBackgroundMutation clears background image and color together
type RemoveBackgroundMutation struct {
	Selector string
}

// RegisterFontMutation embeds a custom font face into the document
type RegisterFontMutation struct {
	Font FontRegistration
}

// InsertImageMutation adds a free-floating, draggable image at the end of the body
type InsertImageMutation struct {
	DataURI string
	X       float64
	Y       float64
}

// MoveImageMutation repositions a previously inserted image
type MoveImageMutation struct {
	Selector string
	Left     float64
	Top      float64
}

func (m TextMutation) Kind() MutationKind             { return MutationText }
func (m StyleMutation) Kind() MutationKind            { return MutationStyle }
func (m ImageMutation) Kind() MutationKind            { return MutationImage }
func (m RemoveBackgroundMutation) Kind() MutationKind { return MutationRemoveBackground }
func (m RegisterFontMutation) Kind() MutationKind     { return MutationRegisterFont }
func (m InsertImageMutation) Kind() MutationKind      { return MutationInsertImage }
func (m MoveImageMutation) Kind() MutationKind        { return MutationMoveImage }

func (m TextMutation) Target() string             { return m.Selector }
func (m StyleMutation) Target() string            { return m.Selector }
func (m ImageMutation) Target() string            { return m.Selector }
func (m RemoveBackgroundMutation) Target() string { return m.Selector }
func (m RegisterFontMutation) Target() string     { return "" }
func (m InsertImageMutation) Target() string      { return "" }
func (m MoveImageMutation) Target() string        { return m.Selector }

// FontRegistration binds a family name to embedded font data
type FontRegistration struct {
	Name       string `json:"name"`
	SourceData string `json:"sourceData"`
}
