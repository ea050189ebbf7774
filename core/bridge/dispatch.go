// ABOUTME: Dispatches decoded bridge messages to a handler by message type
// ABOUTME: Unrecognized variants are reported as unhandled rather than as errors

package bridge

import "hostgenie-api/core/domain"

// Handler receives validated bridge messages
type Handler interface {
	ElementSelected(msg domain.ElementSelected) error
	ImagePasted(msg domain.ImagePasted) error
	ImageMoved(msg domain.ImageMoved) error
}

// Dispatch routes msg to the matching handler method.
// Unrecognized variants are ignored and handled reports false.
func Dispatch(msg domain.Message, h Handler) (handled bool, err error) {
	switch m := msg.(type) {
	case domain.ElementSelected:
		return true, h.ElementSelected(m)
	case domain.ImagePasted:
		return true, h.ImagePasted(m)
	case domain.ImageMoved:
		return true, h.ImageMoved(m)
	default:
		return false, nil
	}
}
