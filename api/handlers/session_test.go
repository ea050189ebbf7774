package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostgenie-api/api/dto/responses"
	"hostgenie-api/core/editor"
	"hostgenie-api/core/panel"
	"hostgenie-api/pkg/featureflags"
)

func selectedFrame(selector, tag, text string) []byte {
	frame, _ := json.Marshal(map[string]interface{}{
		"type": "element-selected",
		"payload": map[string]interface{}{
			"selector":    selector,
			"tagName":     tag,
			"textContent": text,
			"innerHTML":   text,
			"styles":      map[string]string{"color": "rgb(0, 0, 0)", "fontSize": "32px"},
		},
	})
	return frame
}

func TestCreateSession_RequiresUser(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/sessions", "", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSession_StarterDocument(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/sessions", "user-1", map[string]string{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	st := decode[editor.State](t, rec)
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, editor.StarterDocument, st.Document)
	assert.Equal(t, 1, ts.store.Len())
}

func TestGetSession_OwnerOnly(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)

	rec := ts.do(t, http.MethodGet, "/sessions/"+st.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/"+st.ID, "user-2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/missing", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMutationUndoRedo(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	base := "/sessions/" + st.ID

	rec := ts.do(t, http.MethodPost, base+"/mutations", "user-1", map[string]interface{}{
		"kind": "text", "selector": "#title", "text": "Welcome",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	after := decode[editor.State](t, rec)
	assert.Contains(t, after.Document, "Welcome")
	assert.True(t, after.CanUndo)

	rec = ts.do(t, http.MethodPost, base+"/undo", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testDoc, decode[editor.State](t, rec).Document)

	rec = ts.do(t, http.MethodPost, base+"/redo", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, after.Document, decode[editor.State](t, rec).Document)
}

func TestMutation_Errors(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	path := "/sessions/" + st.ID + "/mutations"

	rec := ts.do(t, http.MethodPost, path, "user-1", map[string]interface{}{"kind": "text", "text": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing selector")

	rec = ts.do(t, http.MethodPost, path, "user-1", map[string]interface{}{"kind": "explode", "selector": "h1"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "unknown kind fails schema validation")

	rec = ts.do(t, http.MethodPost, path, "user-1", map[string]interface{}{
		"kind": "style", "selector": "#nope", "properties": map[string]string{"color": "red"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// nothing was recorded
	rec = ts.do(t, http.MethodGet, "/sessions/"+st.ID, "user-1", nil)
	assert.Equal(t, 1, decode[editor.State](t, rec).HistoryLength)
}

func TestEditSource_DoesNotRefreshPreview(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)

	rec := ts.do(t, http.MethodPut, "/sessions/"+st.ID+"/mode", "user-1", map[string]string{"mode": "code"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	edited := strings.Replace(testDoc, "Hello", "Typed", 1)
	rec = ts.do(t, http.MethodPut, "/sessions/"+st.ID+"/source", "user-1", map[string]string{"source": edited})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[editor.State](t, rec)
	assert.True(t, got.Stale)
	assert.Equal(t, st.Revision, got.Revision)

	rec = ts.do(t, http.MethodPut, "/sessions/"+st.ID+"/mode", "user-1", map[string]string{"mode": "preview"})
	got = decode[editor.State](t, rec)
	assert.False(t, got.Stale)
	assert.Greater(t, got.Revision, st.Revision)
	assert.Equal(t, 2, got.HistoryLength)
}

func TestSetMode_RequiresField(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	rec := ts.do(t, http.MethodPut, "/sessions/"+st.ID+"/mode", "user-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVisualBridgeAndPanel(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	base := "/sessions/" + st.ID

	// ignored while the preview is not instrumented
	rec := ts.do(t, http.MethodPost, base+"/bridge", "user-1", selectedFrame("#title", "H1", "Hello"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[responses.BridgeResponse](t, rec).Handled)

	rec = ts.do(t, http.MethodPut, base+"/mode", "user-1", map[string]interface{}{"visual": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[editor.State](t, rec).Visual)

	rec = ts.do(t, http.MethodPost, base+"/bridge", "user-1", selectedFrame("#title", "H1", "Hello"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	br := decode[responses.BridgeResponse](t, rec)
	assert.True(t, br.Handled)
	require.NotNil(t, br.State.Selection)
	assert.Equal(t, "#title", br.State.Selection.Selector)

	rec = ts.do(t, http.MethodGet, base+"/panel", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[panel.View](t, rec)
	assert.Equal(t, panel.ViewText, view.Kind)
	require.NotNil(t, view.Values)
	assert.Equal(t, 32, view.Values.FontSize)

	pending := *view.Values
	pending.Color = "#ff0000"
	rec = ts.do(t, http.MethodPost, base+"/panel/apply", "user-1", pending)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, decode[editor.State](t, rec).Document, "color: #ff0000;")
}

func TestBridge_UnknownTypeIgnored(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/bridge", "user-1", []byte(`{"type":"telemetry","payload":{}}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[responses.BridgeResponse](t, rec).Handled)
}

func TestBridge_MalformedFrame(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/bridge", "user-1", []byte(`{"type":"element-selected","payload":{"selector":"","tagName":"p"}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBridge_NonJSONFrame(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/bridge", "user-1", []byte(`not a frame`))
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "malformed envelope")
}

func TestVisualDisabledByFlag(t *testing.T) {
	ts := newTestServer(t)
	ts.flags.SetEnabled(featureflags.VisualEditEnabled, false)
	st := ts.openSession(t)

	rec := ts.do(t, http.MethodPut, "/sessions/"+st.ID+"/mode", "user-1", map[string]interface{}{"visual": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadDocument(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)

	doc := `<html><head><title>Uploaded</title></head><body><p>file</p></body></html>`
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/document", "user-1", map[string]interface{}{
		"filename": "page.html",
		"data":     []byte(doc),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[editor.State](t, rec)
	assert.Equal(t, doc, got.Document)
	assert.Equal(t, "Uploaded", got.Meta.Title)
	assert.Equal(t, 1, got.HistoryLength)
}

func TestUploadImage_RequiresSelection(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/images", "user-1", map[string]interface{}{"data": png})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)
	base := "/sessions/" + st.ID

	rec := ts.do(t, http.MethodPost, base+"/generate", "user-1", map[string]string{"prompt": "a bakery site"})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.True(t, decode[responses.GenerateResponse](t, rec).Accepted)

	assert.Eventually(t, func() bool {
		rec := ts.do(t, http.MethodGet, base, "user-1", nil)
		return strings.Contains(decode[editor.State](t, rec).Document, "Generated")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGenerate_DisabledByFlag(t *testing.T) {
	ts := newTestServer(t)
	ts.flags.SetEnabled(featureflags.AIGenerationEnabled, false)
	st := ts.openSession(t)
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/generate", "user-1", map[string]string{"prompt": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGenerate_LimitedToListedUsers(t *testing.T) {
	ts := newTestServer(t)
	ts.flags.LimitToUsers(featureflags.AIGenerationEnabled, "beta-user")
	st := ts.openSession(t)
	rec := ts.do(t, http.MethodPost, "/sessions/"+st.ID+"/generate", "user-1", map[string]string{"prompt": "x"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCloseSession(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)

	rec := ts.do(t, http.MethodDelete, "/sessions/"+st.ID, "user-2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/sessions/"+st.ID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/sessions/"+st.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreview_SandboxHeaders(t *testing.T) {
	ts := newTestServer(t)
	st := ts.openSession(t)

	rec := ts.do(t, http.MethodGet, "/sessions/"+st.ID+"/preview?user=user-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sandbox allow-scripts", rec.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Preview-Revision"))
	assert.Equal(t, testDoc, rec.Body.String())

	ts.do(t, http.MethodPut, "/sessions/"+st.ID+"/mode", "user-1", map[string]interface{}{"visual": true})
	rec = ts.do(t, http.MethodGet, "/sessions/"+st.ID+"/preview", "user-1", nil)
	assert.Contains(t, rec.Body.String(), "data-hg-inspector")

	rec = ts.do(t, http.MethodGet, "/sessions/"+st.ID+"/preview", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = ts.do(t, http.MethodGet, "/sessions/"+st.ID+"/preview", "user-2", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
