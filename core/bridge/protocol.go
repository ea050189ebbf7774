// ABOUTME: Tagged-variant message protocol spoken by the instrumented preview
// ABOUTME: Decodes and validates inbound envelopes and dispatches them to typed handlers

// Package bridge is the only path from the sandboxed preview back to the editor.
// Every inbound frame is an envelope {"type": ..., "payload": ...}. Decode turns a
// frame into a typed domain.Message after validating its payload; Dispatch routes
// known variants and ignores anything else.
package bridge

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

const (
	// MaxFrameSize bounds one envelope; pasted images travel inline as data URIs
	MaxFrameSize = 16 << 20

	maxSelectorLen = 2048
	maxTextLen     = 1 << 20
)

// ErrUnknownMessage is returned by Decode for envelopes of an unrecognized type
var ErrUnknownMessage = errors.New("unknown bridge message type")

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Envelope is the wire form of every bridge message
type Envelope struct {
	Type    domain.MessageType `json:"type"`
	Payload json.RawMessage    `json:"payload"`
}

type imagePastedPayload struct {
	DataURI string  `json:"dataUri"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type imageMovedPayload struct {
	Selector string  `json:"selector"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
}

// Decode parses and validates one frame
func Decode(frame []byte) (domain.Message, error) {
	if len(frame) > MaxFrameSize {
		return nil, &coreerrors.ValidationError{Field: "frame", Message: "message too large"}
	}
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, &coreerrors.ValidationError{Field: "frame", Message: "malformed envelope"}
	}
	return DecodeEnvelope(env)
}

// DecodeEnvelope validates an already unmarshalled envelope
func DecodeEnvelope(env Envelope) (domain.Message, error) {
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		if isKnown(env.Type) {
			return nil, &coreerrors.ValidationError{Field: "payload", Message: "payload is required"}
		}
		return nil, ErrUnknownMessage
	}

	switch env.Type {
	case domain.MessageElementSelected:
		var sel domain.Selection
		if err := json.Unmarshal(env.Payload, &sel); err != nil {
			return nil, &coreerrors.ValidationError{Field: "payload", Message: "malformed selection"}
		}
		if err := validateSelection(&sel); err != nil {
			return nil, err
		}
		return domain.ElementSelected{Selection: sel}, nil

	case domain.MessageImagePasted:
		var p imagePastedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, &coreerrors.ValidationError{Field: "payload", Message: "malformed image paste"}
		}
		if !strings.HasPrefix(p.DataURI, "data:image/") {
			return nil, &coreerrors.ValidationError{Field: "dataUri", Message: "must be an image data URI"}
		}
		if !finite(p.X, p.Y) {
			return nil, &coreerrors.ValidationError{Field: "position", Message: "coordinates must be finite"}
		}
		return domain.ImagePasted{DataURI: p.DataURI, X: math.Max(0, p.X), Y: math.Max(0, p.Y)}, nil

	case domain.MessageImageMoved:
		var p imageMovedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, &coreerrors.ValidationError{Field: "payload", Message: "malformed image move"}
		}
		if err := ValidateSelector(p.Selector); err != nil {
			return nil, err
		}
		if !finite(p.Left, p.Top) {
			return nil, &coreerrors.ValidationError{Field: "position", Message: "coordinates must be finite"}
		}
		return domain.ImageMoved{Selector: strings.TrimSpace(p.Selector), Left: p.Left, Top: p.Top}, nil
	}

	return nil, ErrUnknownMessage
}

// Encode produces the wire form of a message
func Encode(msg domain.Message) ([]byte, error) {
	var payload interface{}
	switch m := msg.(type) {
	case domain.ElementSelected:
		payload = m.Selection
	case domain.ImagePasted:
		payload = imagePastedPayload{DataURI: m.DataURI, X: m.X, Y: m.Y}
	case domain.ImageMoved:
		payload = imageMovedPayload{Selector: m.Selector, Left: m.Left, Top: m.Top}
	default:
		return nil, ErrUnknownMessage
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msg.Type(), Payload: raw})
}

// ValidateSelector checks that s is a non-empty, compilable CSS selector
func ValidateSelector(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxSelectorLen {
		return &coreerrors.ValidationError{Field: "selector", Message: "selector is required"}
	}
	if _, err := cascadia.Compile(s); err != nil {
		return &coreerrors.ValidationError{Field: "selector", Message: "invalid selector"}
	}
	return nil
}

func validateSelection(sel *domain.Selection) error {
	if err := ValidateSelector(sel.Selector); err != nil {
		return err
	}
	sel.Selector = strings.TrimSpace(sel.Selector)
	sel.TagName = strings.ToLower(strings.TrimSpace(sel.TagName))
	if !tagPattern.MatchString(sel.TagName) {
		return &coreerrors.ValidationError{Field: "tagName", Message: "invalid tag name"}
	}
	if len(sel.TextContent) > maxTextLen || len(sel.InnerHTML) > maxTextLen {
		return &coreerrors.ValidationError{Field: "payload", Message: "selection content too large"}
	}
	return nil
}

func isKnown(t domain.MessageType) bool {
	switch t {
	case domain.MessageElementSelected, domain.MessageImagePasted, domain.MessageImageMoved:
		return true
	}
	return false
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
