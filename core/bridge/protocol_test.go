package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgenie-api/core/domain"
	coreerrors "hostgenie-api/core/errors"
)

func TestDecode_ElementSelected(t *testing.T) {
	frame := []byte(`{"type":"element-selected","payload":{
		"selector":"main > p:nth-of-type(2)","tagName":"P","textContent":"Hello & bye",
		"innerHTML":"Hello &amp; bye","styles":{"color":"rgb(255, 0, 0)","fontSize":"16px"}}}`)

	msg, err := Decode(frame)

	require.NoError(t, err)
	sel, ok := msg.(domain.ElementSelected)
	require.True(t, ok)
	assert.Equal(t, "main > p:nth-of-type(2)", sel.Selection.Selector)
	assert.Equal(t, "p", sel.Selection.TagName)
	assert.Equal(t, "Hello & bye", sel.Selection.TextContent)
	assert.Equal(t, "rgb(255, 0, 0)", sel.Selection.Styles.Color)
}

func TestDecode_ImagePastedClampsNegativeCoordinates(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"image-pasted","payload":{"dataUri":"data:image/png;base64,AAAA","x":-5,"y":30.5}}`))

	require.NoError(t, err)
	assert.Equal(t, domain.ImagePasted{DataURI: "data:image/png;base64,AAAA", X: 0, Y: 30.5}, msg)
}

func TestDecode_ImageMoved(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"image-moved","payload":{"selector":" img:nth-of-type(2) ","left":12,"top":40}}`))

	require.NoError(t, err)
	assert.Equal(t, domain.ImageMoved{Selector: "img:nth-of-type(2)", Left: 12, Top: 40}, msg)
}

func TestDecode_RejectsBadShapes(t *testing.T) {
	tests := map[string]string{
		"not json":             `{"type":`,
		"missing payload":      `{"type":"element-selected"}`,
		"null payload":         `{"type":"image-moved","payload":null}`,
		"payload wrong type":   `{"type":"element-selected","payload":"p"}`,
		"empty selector":       `{"type":"element-selected","payload":{"selector":"","tagName":"p"}}`,
		"invalid selector":     `{"type":"element-selected","payload":{"selector":"p:nth-of-type(","tagName":"p"}}`,
		"invalid tag":          `{"type":"element-selected","payload":{"selector":"p","tagName":"<p>"}}`,
		"non image data":       `{"type":"image-pasted","payload":{"dataUri":"data:text/html,<b>","x":1,"y":1}}`,
		"remote image":         `{"type":"image-pasted","payload":{"dataUri":"https://x.test/a.png","x":1,"y":1}}`,
		"moved without sel":    `{"type":"image-moved","payload":{"left":1,"top":1}}`,
		"coordinate as string": `{"type":"image-moved","payload":{"selector":"img","left":"1","top":1}}`,
	}

	for name, frame := range tests {
		t.Run(name, func(t *testing.T) {
			msg, err := Decode([]byte(frame))
			assert.Nil(t, msg)
			assert.True(t, coreerrors.IsValidation(err), "got %v", err)
		})
	}
}

func TestDecode_UnknownType(t *testing.T) {
	for _, frame := range []string{
		`{"type":"resize","payload":{"w":1}}`,
		`{"type":"","payload":{}}`,
		`{"payload":{"selector":"p"}}`,
	} {
		msg, err := Decode([]byte(frame))
		assert.Nil(t, msg)
		assert.True(t, errors.Is(err, ErrUnknownMessage), "frame %s: %v", frame, err)
	}
}

func TestEncodeDecode_PreservesMessage(t *testing.T) {
	original := domain.ImageMoved{Selector: "#logo", Left: 3, Top: 4}

	frame, err := Encode(original)
	require.NoError(t, err)
	decoded, err := Decode(frame)
	require.NoError(t, err)

	assert.Equal(t, original, decoded)
}

type recordingHandler struct {
	calls []string
	err   error
}

func (h *recordingHandler) ElementSelected(domain.ElementSelected) error {
	h.calls = append(h.calls, "selected")
	return h.err
}

func (h *recordingHandler) ImagePasted(domain.ImagePasted) error {
	h.calls = append(h.calls, "pasted")
	return h.err
}

func (h *recordingHandler) ImageMoved(domain.ImageMoved) error {
	h.calls = append(h.calls, "moved")
	return h.err
}

type strayMessage struct{}

func (strayMessage) Type() domain.MessageType { return "stray" }

func TestDispatch_RoutesEachVariant(t *testing.T) {
	h := &recordingHandler{}

	for _, msg := range []domain.Message{
		domain.ElementSelected{},
		domain.ImagePasted{},
		domain.ImageMoved{},
	} {
		handled, err := Dispatch(msg, h)
		assert.True(t, handled)
		assert.NoError(t, err)
	}

	assert.Equal(t, []string{"selected", "pasted", "moved"}, h.calls)
}

func TestDispatch_IgnoresUnknownVariant(t *testing.T) {
	h := &recordingHandler{}

	handled, err := Dispatch(strayMessage{}, h)

	assert.False(t, handled)
	assert.NoError(t, err)
	assert.Empty(t, h.calls)
}

func TestDispatch_PropagatesHandlerError(t *testing.T) {
	h := &recordingHandler{err: errors.New("boom")}

	handled, err := Dispatch(domain.ImageMoved{}, h)

	assert.True(t, handled)
	assert.EqualError(t, err, "boom")
}
