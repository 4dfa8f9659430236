package ws

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/domain/workspace"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
	"github.com/GriffinCanCode/termhost/internal/shared/utils"
)

// attachTimeout bounds the spawn performed by the first attach.
const attachTimeout = 10 * time.Second

// replaySource is implemented by surfaces that keep raw scrollback.
type replaySource interface {
	Bytes() []byte
}

// Handler serves one terminal view per WebSocket connection.
type Handler struct {
	workspaces *workspace.Manager
	palettes   terminal.PaletteSource
	metrics    *monitoring.Metrics
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

// NewHandler creates a terminal stream handler. An empty origins list
// accepts any origin.
func NewHandler(workspaces *workspace.Manager, palettes terminal.PaletteSource, metrics *monitoring.Metrics, origins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		workspaces: workspaces,
		palettes:   palettes,
		metrics:    metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin(origins),
		},
		log: logger,
	}
}

func checkOrigin(origins []string) func(*http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}

// HandleTerminal upgrades GET /workspaces/:id/terminal?dir=... and binds a
// view to the session for dir.
func (h *Handler) HandleTerminal(c *gin.Context) {
	wsID := c.Param("id")
	if err := utils.ValidateID(wsID, "workspace_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir := c.Query("dir")
	if err := utils.ValidateDirectory(dir, "dir", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.workspaces.Session(wsID, dir)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, workspace.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	socket, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	log := h.log.With(zap.String("workspace", wsID), zap.String("session", session.ID().String()))
	cn := newConn(socket, h.metrics, log)
	defer cn.close()

	view := terminal.NewView(cn, h.palettes, h.metrics, log)
	defer view.Close()
	h.serve(c.Request.Context(), cn, view, session)
}

func (h *Handler) serve(ctx context.Context, cn *conn, view *terminal.View, session *terminal.Session) {
	if replay, ok := session.Surface().(replaySource); ok {
		if data := replay.Bytes(); len(data) > 0 {
			if err := cn.write(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}

	attachCtx, cancel := context.WithTimeout(ctx, attachTimeout)
	err := view.Attach(attachCtx, session)
	cancel()
	if err != nil {
		cn.sendError(err.Error())
		return
	}

	_ = cn.send(map[string]interface{}{
		"type":    "attached",
		"view_id": view.ID().String(),
		"session": session.Info(),
	})

	done := make(chan struct{})
	defer close(done)
	go h.keepalive(cn, done)

	h.readLoop(cn, view, session)
}

func (h *Handler) keepalive(cn *conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cn.ping(); err != nil {
				return
			}
		}
	}
}

func (h *Handler) readLoop(cn *conn, view *terminal.View, session *terminal.Session) {
	cn.ws.SetReadLimit(utils.MaxInputSize + 1024)
	_ = cn.ws.SetReadDeadline(time.Now().Add(pongWait))
	cn.ws.SetPongHandler(func(string) error {
		return cn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.WSMessage
		if err := cn.ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cn.log.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = cn.ws.SetReadDeadline(time.Now().Add(pongWait))
		h.metrics.RecordWSMessage("in", messageLabel(msg.Type))

		switch msg.Type {
		case "input":
			if err := utils.ValidateInput(msg.Input); err != nil {
				cn.sendError(err.Error())
				continue
			}
			if _, err := session.Write([]byte(msg.Input)); err != nil {
				cn.sendError(err.Error())
			}
		case "resize":
			if err := session.Resize(msg.Cols, msg.Rows); err != nil {
				cn.sendError(err.Error())
			}
		case "refresh":
			if err := view.Refresh(); err != nil {
				cn.sendError(err.Error())
			}
		case "ping":
			_ = cn.send(map[string]interface{}{"type": "pong"})
		default:
			cn.sendError("unknown message type")
		}
	}
}

// messageLabel keeps metric label values bounded.
func messageLabel(t string) string {
	switch t {
	case "input", "resize", "refresh", "ping":
		return t
	default:
		return "unknown"
	}
}
