// ABOUTME: Editor session handlers for the Huma API
// ABOUTME: Every editor event is executed server-side against the caller's session

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"hostgenie-api/api/dto/mappers"
	"hostgenie-api/api/dto/requests"
	"hostgenie-api/api/dto/responses"
	"hostgenie-api/core/bridge"
	"hostgenie-api/core/domain"
	"hostgenie-api/core/editor"
	"hostgenie-api/core/panel"
	"hostgenie-api/pkg/featureflags"
)

// maxUploadBytes bounds JSON bodies that carry base64 files
const maxUploadBytes = 32 << 20

// SessionHandler handles editor session requests
type SessionHandler struct {
	store  *editor.Store
	deps   editor.Deps
	flags  featureflags.Manager
	appURL string
}

// NewSessionHandler creates a new session handler. deps are handed to every opened session.
func NewSessionHandler(store *editor.Store, deps editor.Deps, flags featureflags.Manager, appURL string) *SessionHandler {
	if flags == nil {
		flags = featureflags.NewStaticManager(featureflags.Defaults())
	}
	return &SessionHandler{store: store, deps: deps, flags: flags, appURL: appURL}
}

// RegisterRoutes registers all session routes
func (h *SessionHandler) RegisterRoutes(api huma.API) {
	tags := []string{"Sessions"}
	reg := func(id, method, path, summary string) huma.Operation {
		return huma.Operation{OperationID: id, Method: method, Path: path, Summary: summary, Tags: tags}
	}

	op := reg("createSession", http.MethodPost, "/sessions", "Open an editor session")
	op.DefaultStatus = http.StatusCreated
	op.Description = "Opens a new site from the starter document (restoring the caller's draft) or an existing site the caller owns"
	huma.Register(api, op, h.Create)

	huma.Register(api, reg("getSession", http.MethodGet, "/sessions/{id}", "Get session state"), h.Get)
	huma.Register(api, reg("closeSession", http.MethodDelete, "/sessions/{id}", "Close a session"), h.Close)
	huma.Register(api, reg("editSource", http.MethodPut, "/sessions/{id}/source", "Code-mode edit"), h.EditSource)
	huma.Register(api, reg("updateMeta", http.MethodPut, "/sessions/{id}/meta", "Update site metadata"), h.UpdateMeta)
	huma.Register(api, reg("setMode", http.MethodPut, "/sessions/{id}/mode", "Switch editor tab or visual mode"), h.SetMode)
	huma.Register(api, reg("selectElement", http.MethodPut, "/sessions/{id}/selection", "Select an element"), h.Select)
	huma.Register(api, reg("clearSelection", http.MethodDelete, "/sessions/{id}/selection", "Clear the selection"), h.ClearSelection)
	huma.Register(api, reg("applyMutation", http.MethodPost, "/sessions/{id}/mutations", "Apply a structured mutation"), h.ApplyMutation)
	huma.Register(api, reg("getPanel", http.MethodGet, "/sessions/{id}/panel", "Property panel view"), h.Panel)
	huma.Register(api, reg("applyPanel", http.MethodPost, "/sessions/{id}/panel/apply", "Apply property panel changes"), h.ApplyPanel)

	uploads := []huma.Operation{
		reg("uploadFont", http.MethodPost, "/sessions/{id}/fonts", "Upload a custom font"),
		reg("uploadImage", http.MethodPost, "/sessions/{id}/images", "Upload an image for the selection"),
		reg("uploadDocument", http.MethodPost, "/sessions/{id}/document", "Replace the document with an uploaded HTML file"),
	}
	for i := range uploads {
		uploads[i].MaxBodyBytes = maxUploadBytes
	}
	huma.Register(api, uploads[0], h.UploadFont)
	huma.Register(api, uploads[1], h.UploadImage)
	huma.Register(api, uploads[2], h.UploadDocument)

	huma.Register(api, reg("undo", http.MethodPost, "/sessions/{id}/undo", "Undo"), h.Undo)
	huma.Register(api, reg("redo", http.MethodPost, "/sessions/{id}/redo", "Redo"), h.Redo)

	bridgeOp := reg("relayBridgeMessage", http.MethodPost, "/sessions/{id}/bridge", "Relay a message from the preview")
	bridgeOp.MaxBodyBytes = bridge.MaxFrameSize
	bridgeOp.SkipValidateBody = true
	huma.Register(api, bridgeOp, h.Bridge)

	genOp := reg("generate", http.MethodPost, "/sessions/{id}/generate", "Generate a document with AI")
	genOp.DefaultStatus = http.StatusAccepted
	huma.Register(api, genOp, h.Generate)
	huma.Register(api, reg("dismissNotice", http.MethodDelete, "/sessions/{id}/notice", "Dismiss the generation notice"), h.DismissNotice)

	huma.Register(api, reg("saveSession", http.MethodPost, "/sessions/{id}/save", "Save the site"), h.Save)
}

// SessionPath identifies a session and its caller
type SessionPath struct {
	ID     string `path:"id" maxLength:"64"`
	UserID string `header:"X-User-ID"`
}

// StateOutput carries a session snapshot
type StateOutput struct {
	Body editor.State
}

func stateOut(st editor.State, err error) (*StateOutput, error) {
	if err != nil {
		return nil, toHumaError(err)
	}
	return &StateOutput{Body: st}, nil
}

func (h *SessionHandler) session(in SessionPath) (*editor.Session, error) {
	if in.UserID == "" {
		return nil, huma.Error401Unauthorized("X-User-ID header is required")
	}
	s, err := h.store.GetOwned(in.ID, in.UserID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return s, nil
}

// CreateSessionInput defines the input for Create
type CreateSessionInput struct {
	UserID string `header:"X-User-ID"`
	Body   requests.CreateSessionRequest
}

// Create opens a session
func (h *SessionHandler) Create(ctx context.Context, input *CreateSessionInput) (*StateOutput, error) {
	if input.UserID == "" {
		return nil, huma.Error401Unauthorized("X-User-ID header is required")
	}
	s, err := editor.Open(ctx, h.deps, editor.Options{
		OwnerID:    input.UserID,
		AuthorName: input.Body.AuthorName,
		SiteID:     input.Body.SiteID,
		Document:   input.Body.Document,
		Autosave:   h.flags.IsEnabledForUser(ctx, featureflags.DraftAutosaveEnabled, input.UserID),
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	h.store.Add(s)
	return &StateOutput{Body: s.State()}, nil
}

// SessionInput is the input of operations without a body
type SessionInput struct {
	SessionPath
}

// Get returns the session state
func (h *SessionHandler) Get(ctx context.Context, input *SessionInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return &StateOutput{Body: s.State()}, nil
}

// Close ends the session; a pending draft is written first
func (h *SessionHandler) Close(ctx context.Context, input *SessionInput) (*struct{}, error) {
	if _, err := h.session(input.SessionPath); err != nil {
		return nil, err
	}
	h.store.Delete(input.ID)
	return nil, nil
}

// EditSourceInput defines the input for EditSource
type EditSourceInput struct {
	SessionPath
	Body requests.SourceRequest
}

// EditSource records a code-mode edit
func (h *SessionHandler) EditSource(ctx context.Context, input *EditSourceInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.EditSource(input.Body.Source))
}

// UpdateMetaInput defines the input for UpdateMeta
type UpdateMetaInput struct {
	SessionPath
	Body requests.MetaRequest
}

// UpdateMeta replaces the site metadata
func (h *SessionHandler) UpdateMeta(ctx context.Context, input *UpdateMetaInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.UpdateMeta(mappers.ToMeta(input.Body)))
}

// SetModeInput defines the input for SetMode
type SetModeInput struct {
	SessionPath
	Body requests.ModeRequest
}

// SetMode switches the tab and/or visual mode; both are preview checkpoints
func (h *SessionHandler) SetMode(ctx context.Context, input *SetModeInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	if input.Body.Mode == "" && input.Body.Visual == nil {
		return nil, huma.Error400BadRequest("mode or visual is required")
	}
	if v := input.Body.Visual; v != nil && *v && !h.flags.IsEnabledForUser(ctx, featureflags.VisualEditEnabled, input.UserID) {
		return nil, huma.Error403Forbidden("visual editing is disabled")
	}

	st := s.State()
	if input.Body.Mode != "" {
		if st, err = s.SetMode(domain.EditorMode(input.Body.Mode)); err != nil {
			return nil, toHumaError(err)
		}
	}
	if input.Body.Visual != nil {
		if st, err = s.SetVisual(*input.Body.Visual); err != nil {
			return nil, toHumaError(err)
		}
	}
	return &StateOutput{Body: st}, nil
}

// SelectInput defines the input for Select
type SelectInput struct {
	SessionPath
	Body domain.Selection
}

// Select makes an element the current selection
func (h *SessionHandler) Select(ctx context.Context, input *SelectInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	if err := bridge.ValidateSelector(input.Body.Selector); err != nil {
		return nil, toHumaError(err)
	}
	return stateOut(s.Select(input.Body))
}

// ClearSelection drops the current selection
func (h *SessionHandler) ClearSelection(ctx context.Context, input *SessionInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return &StateOutput{Body: s.ClearSelection()}, nil
}

// ApplyMutationInput defines the input for ApplyMutation
type ApplyMutationInput struct {
	SessionPath
	Body requests.MutationRequest
}

// ApplyMutation applies one structured mutation
func (h *SessionHandler) ApplyMutation(ctx context.Context, input *ApplyMutationInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	m, err := mappers.ToMutation(input.Body)
	if err != nil {
		return nil, toHumaError(err)
	}
	return stateOut(s.Apply(m))
}

// PanelOutput carries the property panel view
type PanelOutput struct {
	Body panel.View
}

// Panel returns the property panel for the current selection
func (h *SessionHandler) Panel(ctx context.Context, input *SessionInput) (*PanelOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return &PanelOutput{Body: s.Panel()}, nil
}

// ApplyPanelInput defines the input for ApplyPanel
type ApplyPanelInput struct {
	SessionPath
	Body panel.Values
}

// ApplyPanel applies what changed in the property panel
func (h *SessionHandler) ApplyPanel(ctx context.Context, input *ApplyPanelInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.ApplyPanel(input.Body))
}

// UploadInput defines the input for the upload operations
type UploadInput struct {
	SessionPath
	Body requests.UploadRequest
}

// FontUploadOutput carries the registered family
type FontUploadOutput struct {
	Body responses.FontUploadResponse
}

// UploadFont registers a custom font and applies it to a selected text element
func (h *SessionHandler) UploadFont(ctx context.Context, input *UploadInput) (*FontUploadOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	st, family, err := s.RegisterFont(input.Body.Filename, input.Body.Data)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &FontUploadOutput{Body: responses.FontUploadResponse{Family: family, State: st}}, nil
}

// UploadImage swaps an uploaded image into the selection
func (h *SessionHandler) UploadImage(ctx context.Context, input *UploadInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.ApplyImage(input.Body.Data))
}

// UploadDocument replaces the document and resets history
func (h *SessionHandler) UploadDocument(ctx context.Context, input *UploadInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.LoadDocument(input.Body.Data))
}

// Undo steps back one history entry
func (h *SessionHandler) Undo(ctx context.Context, input *SessionInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.Undo())
}

// Redo steps forward one history entry
func (h *SessionHandler) Redo(ctx context.Context, input *SessionInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return stateOut(s.Redo())
}

// BridgeInput carries one raw envelope from the preview.
// The frame is decoded by bridge.Decode, not by huma.
type BridgeInput struct {
	SessionPath
	RawBody []byte
}

// BridgeOutput reports what happened to a relayed message
type BridgeOutput struct {
	Body responses.BridgeResponse
}

// Bridge relays one preview message. Unknown message types are ignored.
func (h *SessionHandler) Bridge(ctx context.Context, input *BridgeInput) (*BridgeOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	if !h.flags.IsEnabledForUser(ctx, featureflags.VisualEditEnabled, input.UserID) {
		return nil, huma.Error403Forbidden("visual editing is disabled")
	}
	handled, err := relay(s, input.RawBody)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &BridgeOutput{Body: responses.BridgeResponse{Handled: handled, State: s.State()}}, nil
}

// relay decodes one frame and hands it to the session
func relay(s *editor.Session, frame []byte) (bool, error) {
	msg, err := bridge.Decode(frame)
	if errors.Is(err, bridge.ErrUnknownMessage) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.HandleMessage(msg)
}

// GenerateInput defines the input for Generate
type GenerateInput struct {
	SessionPath
	Body requests.GenerateRequest
}

// GenerateOutput acknowledges a started generation
type GenerateOutput struct {
	Body responses.GenerateResponse
}

// Generate starts a background AI generation. The result replaces the
// document when it arrives; poll the session state to observe it.
func (h *SessionHandler) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	if !h.flags.IsEnabledForUser(ctx, featureflags.AIGenerationEnabled, input.UserID) {
		return nil, huma.Error403Forbidden("AI generation is disabled")
	}
	if _, err := s.Generate(input.Body.Prompt, input.Body.Model); err != nil {
		return nil, toHumaError(err)
	}
	return &GenerateOutput{Body: responses.GenerateResponse{Accepted: true, State: s.State()}}, nil
}

// DismissNotice clears the last generation failure
func (h *SessionHandler) DismissNotice(ctx context.Context, input *SessionInput) (*StateOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	return &StateOutput{Body: s.DismissNotice()}, nil
}

// SaveOutput carries the saved site
type SaveOutput struct {
	Body responses.SaveResponse
}

// Save persists the session's document as a site
func (h *SessionHandler) Save(ctx context.Context, input *SessionInput) (*SaveOutput, error) {
	s, err := h.session(input.SessionPath)
	if err != nil {
		return nil, err
	}
	saved, err := s.Save(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SaveOutput{Body: responses.SaveResponse{
		Site:  mappers.ToSiteResponse(saved, h.appURL),
		State: s.State(),
	}}, nil
}
