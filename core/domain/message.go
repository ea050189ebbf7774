// ABOUTME: Bridge message variants crossing the preview isolation boundary
// ABOUTME: A tagged union: every message has a discriminant and a typed payload

package domain

// MessageType discriminates bridge messages
type MessageType string

const (
	MessageElementSelected MessageType = "element-selected"
	MessageImagePasted     MessageType = "image-pasted"
	MessageImageMoved      MessageType = "image-moved"
)

// Message is a validated message received from the instrumented preview
type Message interface {
	Type() MessageType
}

// ElementSelected reports the element the user clicked in the preview
type ElementSelected struct {
	Selection Selection
}

// ImagePasted reports an image pasted into the preview at the given coordinates
type ImagePasted struct {
	DataURI string
	X       float64
	Y       float64
}

// ImageMoved reports the final position of a dragged image
type ImageMoved struct {
	Selector string
	Left     float64
	Top      float64
}

func (m ElementSelected) Type() MessageType { return MessageElementSelected }
func (m ImagePasted) Type() MessageType     { return MessageImagePasted }
func (m ImageMoved) Type() MessageType      { return MessageImageMoved }
