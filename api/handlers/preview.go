// ABOUTME: Raw preview and bridge websocket handlers mounted directly on the chi router
// ABOUTME: The preview is served as HTML under a sandbox CSP; the websocket relays bridge frames

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"hostgenie-api/api/middleware"
	"hostgenie-api/core/bridge"
	"hostgenie-api/core/editor"
	coreerrors "hostgenie-api/core/errors"
	"hostgenie-api/core/interfaces"
	"hostgenie-api/core/preview"
	"hostgenie-api/pkg/featureflags"
)

const wsWriteTimeout = 2 * time.Second

// wsReply is written after every frame
type wsReply struct {
	Status  string        `json:"status"`
	Handled bool          `json:"handled"`
	Error   string        `json:"error,omitempty"`
	State   *editor.State `json:"state,omitempty"`
}

// PreviewHandler serves session previews and the bridge websocket
type PreviewHandler struct {
	store    *editor.Store
	flags    featureflags.Manager
	logger   interfaces.Logger
	upgrader websocket.Upgrader
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(store *editor.Store, flags featureflags.Manager, logger interfaces.Logger) *PreviewHandler {
	if flags == nil {
		flags = featureflags.NewStaticManager(featureflags.Defaults())
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &PreviewHandler{
		store:  store,
		flags:  flags,
		logger: logger,
		upgrader: websocket.Upgrader{
			// the sandboxed preview has an opaque origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts the raw routes
func (h *PreviewHandler) RegisterRoutes(router chi.Router) {
	router.Get("/sessions/{id}/preview", h.Preview)
	router.Get("/sessions/{id}/bridge/ws", h.BridgeWebSocket)
}

func (h *PreviewHandler) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	owner := middleware.UserID(r)
	if owner == "" {
		http.Error(w, "user is required", http.StatusUnauthorized)
		return nil, false
	}
	s, err := h.store.GetOwned(chi.URLParam(r, "id"), owner)
	switch {
	case err == nil:
		return s, true
	case coreerrors.IsForbidden(err):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "session not found", http.StatusNotFound)
	}
	return nil, false
}

// Preview writes the bytes the sandboxed frame renders
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	content, revision, err := s.Preview()
	if err != nil {
		http.Error(w, "session closed", http.StatusGone)
		return
	}

	for k, v := range preview.SecurityHeaders() {
		w.Header().Set(k, v)
	}
	w.Header().Set("X-Preview-Revision", strconv.FormatUint(revision, 10))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// BridgeWebSocket relays bridge frames. Each frame is one envelope; the reply
// carries the session state after the frame was handled.
func (h *PreviewHandler) BridgeWebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if !h.flags.IsEnabledForUser(r.Context(), featureflags.VisualEditEnabled, s.Owner()) {
		http.Error(w, "visual editing is disabled", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade bridge websocket", map[string]interface{}{
			"session_id": s.ID(),
			"error":      err.Error(),
		})
		return
	}
	defer conn.Close()
	conn.SetReadLimit(bridge.MaxFrameSize)

	h.logger.Debug("Bridge websocket connected", map[string]interface{}{
		"session_id": s.ID(),
	})

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			break
		}

		handled, err := relay(s, frame)
		reply := wsReply{Status: "ok", Handled: handled}
		if err != nil {
			reply.Status = "error"
			reply.Error = err.Error()
		}
		if s.Closed() {
			reply.Status = "closed"
		} else {
			st := s.State()
			reply.State = &st
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Debug("Bridge websocket write failed", map[string]interface{}{
				"session_id": s.ID(),
				"error":      err.Error(),
			})
			break
		}
		if reply.Status == "closed" {
			break
		}
	}
}
