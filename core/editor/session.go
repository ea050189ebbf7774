// ABOUTME: Editor session is the controller that owns one user's editing state
// ABOUTME: Serializes selection, mutations, history, preview sync, drafts and saves under one lock

package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"hostgenie-api/core/bridge"
	"hostgenie-api/core/domain"
	"hostgenie-api/core/draft"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/history"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/panel"
	"hostgenie-api/core/patch"
	"hostgenie-api/core/preview"
	"hostgenie-api/core/selector"
	"hostgenie-api/core/site"
	"hostgenie-api/core/upload"
)

// DefaultGenerateTimeout bounds one AI generation call
const DefaultGenerateTimeout = 2 * time.Minute

var (
	// ErrSessionClosed is returned by every operation after Close
	ErrSessionClosed = errors.New("editor session is closed")
	// ErrGenerating is returned when a generation is already running
	ErrGenerating = errors.New("a generation is already running")
)

// Deps are the collaborators a session works with. Only Engine is required.
type Deps struct {
	Engine          *patch.Engine
	Sites           *site.Service
	Drafts          *draft.Service
	Generator       interfaces.Generator
	Logger          interfaces.Logger
	HistoryLimit    int
	AutosaveDelay   time.Duration
	GenerateTimeout time.Duration
}

// Options describe the session being opened
type Options struct {
	OwnerID    string
	AuthorName string
	// SiteID opens an existing artifact; empty starts a new one
	SiteID string
	// Document overrides the starter document for new artifacts
	Document string
	// Autosave enables debounced drafts for new artifacts
	Autosave bool
}

// State is a by-value snapshot of a session
type State struct {
	ID            string            `json:"id"`
	SiteID        string            `json:"siteId,omitempty"`
	Document      string            `json:"document"`
	Mode          domain.EditorMode `json:"mode"`
	Visual        bool              `json:"visual"`
	Revision      uint64            `json:"revision"`
	Stale         bool              `json:"stale"`
	Selection     *domain.Selection `json:"selection,omitempty"`
	CanUndo       bool              `json:"canUndo"`
	CanRedo       bool              `json:"canRedo"`
	HistoryIndex  int               `json:"historyIndex"`
	HistoryLength int               `json:"historyLength"`
	Meta          domain.SiteMeta   `json:"meta"`
	CustomFonts   []string          `json:"customFonts"`
	Generating    bool              `json:"generating"`
	Notice        string            `json:"notice,omitempty"`
}

// Session is one user's editor. All methods are safe for concurrent use and
// run one at a time.
type Session struct {
	id     string
	owner  string
	author string
	deps   Deps
	logger interfaces.Logger

	mu          sync.Mutex
	siteID      string
	history     *history.Manager
	renderer    *preview.Renderer
	selection   *domain.Selection
	customFonts []string
	meta        domain.SiteMeta
	autosaver   *draft.Autosaver
	generating  bool
	notice      string
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Open creates a session for a new artifact or for an existing site.
// New artifacts restore a saved draft's fields.
func Open(ctx context.Context, deps Deps, opts Options) (*Session, error) {
	if deps.Engine == nil {
		return nil, &coreerrors.ValidationError{Field: "engine", Message: "patch engine is required"}
	}
	if strings.TrimSpace(opts.OwnerID) == "" {
		return nil, &coreerrors.ValidationError{Field: "owner", Message: "owner is required"}
	}
	if deps.Logger == nil {
		deps.Logger = interfaces.NopLogger{}
	}
	if deps.GenerateTimeout <= 0 {
		deps.GenerateTimeout = DefaultGenerateTimeout
	}

	doc := opts.Document
	meta := domain.DefaultSiteMeta()
	var fonts []string

	if opts.SiteID != "" {
		if deps.Sites == nil {
			return nil, &coreerrors.NotFoundError{Resource: "site", ID: opts.SiteID}
		}
		existing, err := deps.Sites.Get(ctx, opts.SiteID)
		if err != nil {
			return nil, err
		}
		if existing.OwnerID != opts.OwnerID {
			return nil, &coreerrors.ForbiddenError{Resource: "site", Reason: "owned by another user"}
		}
		doc = existing.HTMLContent
		meta = domain.SiteMeta{
			Title:               existing.Title,
			Description:         existing.Description,
			IsPublic:            existing.IsPublic,
			AllowSourceDownload: existing.AllowSourceDownload,
		}
	} else {
		if strings.TrimSpace(doc) == "" {
			doc = StarterDocument
		}
		if deps.Drafts != nil {
			if d, ok := deps.Drafts.Load(ctx, opts.OwnerID); ok {
				meta.Title = d.Title
				meta.Description = d.Description
				meta.Prompt = d.Prompt
				fonts = append(fonts, d.CustomFonts...)
			}
		}
	}

	hist := history.NewManager(deps.HistoryLimit)
	hist.Reset(doc)

	sctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:          uuid.NewString(),
		owner:       opts.OwnerID,
		author:      opts.AuthorName,
		deps:        deps,
		logger:      deps.Logger,
		siteID:      opts.SiteID,
		history:     hist,
		renderer:    preview.NewRenderer(doc),
		customFonts: fonts,
		meta:        meta,
		ctx:         sctx,
		cancel:      cancel,
	}
	if opts.SiteID == "" && opts.Autosave && deps.Drafts != nil {
		s.autosaver = draft.NewAutosaver(deps.Drafts, opts.OwnerID, deps.AutosaveDelay)
	}

	s.logger.Info("Editor session opened", map[string]interface{}{
		"session_id": s.id,
		"owner_id":   s.owner,
		"site_id":    s.siteID,
		"autosave":   s.autosaver != nil,
	})
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Owner returns the owning user id
func (s *Session) Owner() string {
	return s.owner
}

// Authorize checks that owner may drive this session
func (s *Session) Authorize(owner string) error {
	if owner != s.owner {
		return &coreerrors.ForbiddenError{Resource: "session", Reason: "owned by another user"}
	}
	return nil
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		ID:            s.id,
		SiteID:        s.siteID,
		Document:      s.renderer.Authoritative(),
		Mode:          s.renderer.Mode(),
		Visual:        s.renderer.Visual(),
		Revision:      s.renderer.Revision(),
		Stale:         s.renderer.Stale(),
		Selection:     s.selection.Clone(),
		CanUndo:       s.history.CanUndo(),
		CanRedo:       s.history.CanRedo(),
		HistoryIndex:  s.history.Index(),
		HistoryLength: s.history.Len(),
		Meta:          s.meta,
		CustomFonts:   append([]string(nil), s.customFonts...),
		Generating:    s.generating,
		Notice:        s.notice,
	}
}

// Preview returns the bytes the sandboxed preview frame renders
func (s *Session) Preview() (content string, revision uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", 0, ErrSessionClosed
	}
	return s.renderer.Content(), s.renderer.Revision(), nil
}

// EditSource replaces the raw buffer from code mode. The preview is not
// refreshed and no history entry is recorded.
func (s *Session) EditSource(doc string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	s.renderer.EditSource(doc)
	return s.stateLocked(), nil
}

// UpdateMeta replaces the author metadata
func (s *Session) UpdateMeta(meta domain.SiteMeta) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	s.meta = meta
	s.touchDraftLocked()
	return s.stateLocked(), nil
}

// SetMode switches between code and preview. Leaving code mode with an edited
// buffer records that buffer as one history entry.
func (s *Session) SetMode(mode domain.EditorMode) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if s.renderer.Mode() == domain.ModeCode && mode != domain.ModeCode {
		s.checkpointSourceLocked()
	}
	if err := s.renderer.SetMode(mode); err != nil {
		return State{}, err
	}
	return s.stateLocked(), nil
}

// SetVisual toggles visual edit mode. Turning it off drops the selection.
func (s *Session) SetVisual(on bool) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	s.checkpointSourceLocked()
	s.renderer.SetVisual(on)
	if !on {
		s.selection = nil
	}
	return s.stateLocked(), nil
}

func (s *Session) checkpointSourceLocked() {
	doc := s.renderer.Authoritative()
	if cur, ok := s.history.Current(); ok && cur == doc {
		return
	}
	s.history.Push(doc)
	s.revalidateSelectionLocked()
}

// Select makes sel the current selection after checking it still resolves
// against the latest document.
func (s *Session) Select(sel domain.Selection) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if err := s.selectLocked(sel); err != nil {
		return State{}, err
	}
	return s.stateLocked(), nil
}

func (s *Session) selectLocked(sel domain.Selection) error {
	if err := s.locateLocked(sel.Selector); err != nil {
		s.selection = nil
		return err
	}
	s.selection = sel.Clone()
	return nil
}

// ClearSelection drops the current selection
func (s *Session) ClearSelection() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
	return s.stateLocked()
}

// Apply runs one mutation against the latest document and records it
func (s *Session) Apply(m domain.Mutation) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if err := s.applyLocked(m); err != nil {
		return State{}, err
	}
	return s.stateLocked(), nil
}

func (s *Session) applyLocked(muts ...domain.Mutation) error {
	doc := s.renderer.Authoritative()
	docs := make([]string, 0, len(muts))
	for _, m := range muts {
		next, err := s.deps.Engine.Apply(doc, m)
		if err != nil {
			s.handleMutationErrorLocked(m, err)
			return err
		}
		doc = next
		docs = append(docs, next)
	}

	for i, m := range muts {
		s.history.Push(docs[i])
		s.afterMutationLocked(m)
	}
	s.renderer.Commit(doc)
	return nil
}

func (s *Session) handleMutationErrorLocked(m domain.Mutation, err error) {
	fields := map[string]interface{}{
		"session_id": s.id,
		"kind":       string(m.Kind()),
		"error":      err.Error(),
	}
	if coreerrors.IsNotFound(err) && s.selection != nil && m.Target() == s.selection.Selector {
		s.selection = nil
		fields["selection_lost"] = true
	}
	s.logger.Warn("Mutation rejected", fields)
}

func (s *Session) afterMutationLocked(m domain.Mutation) {
	switch mut := m.(type) {
	case domain.StyleMutation:
		if s.selection != nil && s.selection.Selector == mut.Selector {
			s.selection.ApplyStyles(mut.Properties)
		}
	case domain.TextMutation:
		if s.selection != nil && s.selection.Selector == mut.Selector {
			s.selection.TextContent = mut.Text
		}
	case domain.ImageMutation:
		if s.selection != nil && s.selection.Selector == mut.Selector && !s.selection.IsImage() {
			s.selection.Styles.BackgroundImage = `url("` + mut.DataURI + `")`
		}
	case domain.RemoveBackgroundMutation:
		if s.selection != nil && s.selection.Selector == mut.Selector {
			s.selection.Styles.BackgroundImage = "none"
			s.selection.Styles.BackgroundColor = "transparent"
		}
	case domain.RegisterFontMutation:
		s.addCustomFontLocked(mut.Font.Name)
	}
}

func (s *Session) addCustomFontLocked(name string) {
	for _, f := range s.customFonts {
		if f == name {
			return
		}
	}
	s.customFonts = append(s.customFonts, name)
	s.touchDraftLocked()
}

// Panel returns the property panel view for the current selection
func (s *Session) Panel() panel.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return panel.Render(s.selection, s.deps.Engine.Fonts(), s.customFonts)
}

// ApplyPanel diffs pending panel values against the selection and applies
// only the changes. Either every resulting mutation lands or none does.
func (s *Session) ApplyPanel(pending panel.Values) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if s.selection == nil {
		return State{}, &coreerrors.ValidationError{Field: "selection", Message: "no element is selected"}
	}

	muts, err := panel.Diff(s.selection, pending)
	if err != nil {
		return State{}, err
	}
	if len(muts) == 0 {
		return s.stateLocked(), nil
	}
	if err := s.applyLocked(muts...); err != nil {
		return State{}, err
	}
	return s.stateLocked(), nil
}

// RegisterFont embeds an uploaded font file and, when a text element is
// selected, applies the new family to it. It returns the family value.
func (s *Session) RegisterFont(filename string, data []byte) (State, string, error) {
	reg, family, err := panel.FontUpload(filename, data)
	if err != nil {
		return State{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, "", ErrSessionClosed
	}

	muts := []domain.Mutation{reg}
	if s.selection != nil && !s.selection.IsImage() {
		muts = append(muts, domain.StyleMutation{
			Selector:   s.selection.Selector,
			Properties: map[string]string{"fontFamily": family},
		})
	}
	if err := s.applyLocked(muts...); err != nil {
		return State{}, "", err
	}
	return s.stateLocked(), family, nil
}

// ApplyImage converts an uploaded image and swaps it into the selected element
func (s *Session) ApplyImage(data []byte) (State, error) {
	uri, err := upload.ImageDataURI(data)
	if err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if s.selection == nil {
		return State{}, &coreerrors.ValidationError{Field: "selection", Message: "no element is selected"}
	}
	if err := s.applyLocked(domain.ImageMutation{Selector: s.selection.Selector, DataURI: uri}); err != nil {
		return State{}, err
	}
	return s.stateLocked(), nil
}

// HandleMessage routes a validated bridge message. Messages that arrive while
// the preview is not instrumented are ignored and handled reports false.
func (s *Session) HandleMessage(msg domain.Message) (handled bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	if !s.renderer.Instrumented() {
		s.logger.Debug("Ignoring bridge message outside visual mode", map[string]interface{}{
			"session_id": s.id,
		})
		return false, nil
	}
	return bridge.Dispatch(msg, lockedHandler{s})
}

// lockedHandler applies bridge messages with the session lock already held
type lockedHandler struct {
	s *Session
}

func (h lockedHandler) ElementSelected(msg domain.ElementSelected) error {
	return h.s.selectLocked(msg.Selection)
}

func (h lockedHandler) ImagePasted(msg domain.ImagePasted) error {
	return h.s.applyLocked(domain.InsertImageMutation{DataURI: msg.DataURI, X: msg.X, Y: msg.Y})
}

func (h lockedHandler) ImageMoved(msg domain.ImageMoved) error {
	return h.s.applyLocked(domain.MoveImageMutation{Selector: msg.Selector, Left: msg.Left, Top: msg.Top})
}

// Undo steps back one history entry
func (s *Session) Undo() (State, error) {
	return s.step((*history.Manager).Undo)
}

// Redo steps forward one history entry
func (s *Session) Redo() (State, error) {
	return s.step((*history.Manager).Redo)
}

func (s *Session) step(move func(*history.Manager) (string, bool)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if doc, ok := move(s.history); ok {
		s.renderer.Commit(doc)
		s.revalidateSelectionLocked()
	}
	return s.stateLocked(), nil
}

// LoadDocument replaces the document with an uploaded HTML file and starts a
// fresh history. A <title> in the file becomes the artifact title.
func (s *Session) LoadDocument(data []byte) (State, error) {
	doc, err := upload.HTMLDocument(data)
	if err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	s.loadLocked(doc)
	return s.stateLocked(), nil
}

func (s *Session) loadLocked(doc string) {
	if title := upload.ExtractTitle(doc); title != "" {
		s.meta.Title = title
	}
	s.history.Reset(doc)
	s.renderer.Commit(doc)
	s.selection = nil
	s.touchDraftLocked()
}

// Generate asks the AI collaborator for a new document in the background.
// The returned channel closes once the result has been applied or dropped.
// A result arriving after Close is ignored.
func (s *Session) Generate(prompt, model string) (<-chan struct{}, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, &coreerrors.ValidationError{Field: "prompt", Message: "prompt is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.deps.Generator == nil {
		return nil, &coreerrors.ExternalAPIError{StatusCode: 503, Message: "generation is not configured", API: "ai"}
	}
	if s.generating {
		return nil, ErrGenerating
	}
	s.generating = true
	s.notice = ""
	s.meta.Prompt = prompt
	s.touchDraftLocked()

	done := make(chan struct{})
	go s.runGeneration(prompt, model, done)
	return done, nil
}

func (s *Session) runGeneration(prompt, model string, done chan<- struct{}) {
	defer close(done)

	ctx, cancel := context.WithTimeout(s.ctx, s.deps.GenerateTimeout)
	defer cancel()
	doc, err := s.deps.Generator.Generate(ctx, prompt, model)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if s.closed {
		return
	}
	if err != nil {
		s.notice = "Generation failed: " + err.Error()
		s.logger.Warn("Generation failed", map[string]interface{}{
			"session_id": s.id,
			"error":      err.Error(),
		})
		return
	}
	s.loadLocked(doc)
	s.logger.Info("Generated document loaded", map[string]interface{}{
		"session_id": s.id,
		"bytes":      len(doc),
	})
}

// DismissNotice clears the last generation failure notice
func (s *Session) DismissNotice() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = ""
	return s.stateLocked()
}

// Save persists the current document. A successful first save clears the
// draft and stops autosaving, since the artifact now exists.
func (s *Session) Save(ctx context.Context) (*domain.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.deps.Sites == nil {
		return nil, &coreerrors.ExternalAPIError{StatusCode: 503, Message: "site storage not configured", API: "storage"}
	}
	s.checkpointSourceLocked()

	saved, err := s.deps.Sites.Save(ctx, site.SaveRequest{
		ID:         s.siteID,
		OwnerID:    s.owner,
		AuthorName: s.author,
		Meta:       s.meta,
		HTML:       s.renderer.Authoritative(),
	})
	if err != nil {
		return nil, err
	}

	wasNew := s.siteID == ""
	s.siteID = saved.ID
	s.meta.Title = saved.Title
	if wasNew {
		if s.autosaver != nil {
			s.autosaver.Stop()
			s.autosaver = nil
		}
		if s.deps.Drafts != nil {
			s.deps.Drafts.Clear(ctx, s.owner)
		}
	}
	return saved, nil
}

// Close ends the session. A pending draft is written once; nothing is
// written afterwards and a running generation is cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	autosaver := s.autosaver
	s.autosaver = nil
	s.selection = nil
	s.mu.Unlock()

	s.cancel()
	if autosaver != nil {
		autosaver.Flush()
		autosaver.Stop()
	}
	s.logger.Info("Editor session closed", map[string]interface{}{
		"session_id": s.id,
	})
}

// Closed reports whether Close has run
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) touchDraftLocked() {
	if s.autosaver == nil {
		return
	}
	s.autosaver.Touch(domain.Draft{
		Title:       s.meta.Title,
		Description: s.meta.Description,
		Prompt:      s.meta.Prompt,
		CustomFonts: append([]string(nil), s.customFonts...),
	})
}

func (s *Session) revalidateSelectionLocked() {
	if s.selection == nil {
		return
	}
	if err := s.locateLocked(s.selection.Selector); err != nil {
		s.selection = nil
	}
}

func (s *Session) locateLocked(sel string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.renderer.Authoritative()))
	if err != nil {
		return err
	}
	_, err = selector.Locate(doc, sel)
	return err
}
