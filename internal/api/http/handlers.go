package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/domain/workspace"
	"github.com/GriffinCanCode/termhost/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termhost/internal/providers/terminal"
	"github.com/GriffinCanCode/termhost/internal/service"
	"github.com/GriffinCanCode/termhost/internal/shared/id"
	"github.com/GriffinCanCode/termhost/internal/shared/types"
	"github.com/GriffinCanCode/termhost/internal/shared/utils"
)

const (
	serviceName    = "termhost"
	serviceVersion = "0.1.0"
	defaultLimit   = 5
)

// Handlers contains all HTTP handlers
type Handlers struct {
	workspaces *workspace.Manager
	registry   *service.Registry
	metrics    *monitoring.Metrics
	log        *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(workspaces *workspace.Manager, registry *service.Registry, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		workspaces: workspaces,
		registry:   registry,
		metrics:    metrics,
		log:        logger,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	sessions := 0
	for _, ws := range h.workspaces.List() {
		sessions += ws.Registry().Len()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"workspaces":       h.workspaces.Count(),
		"sessions":         sessions,
		"service_registry": h.registry.Stats(),
	})
}

// Stats returns a JSON snapshot of the server metrics
func (h *Handlers) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// ListServices lists all available services
func (h *Handlers) ListServices(c *gin.Context) {
	categoryStr := c.Query("category")

	if err := utils.ValidateCategory(categoryStr, false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category *types.Category
	if categoryStr != "" {
		cat := types.Category(categoryStr)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices finds services relevant to a free-text query
func (h *Handlers) DiscoverServices(c *gin.Context) {
	query := c.Query("q")
	if err := utils.ValidateString(query, "q", 1, 256, true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.Discover(query, limit),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := utils.ValidateToolID(req.ToolID, "tool_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appCtx := &types.Context{}
	if req.WorkspaceID != nil {
		if err := utils.ValidateID(*req.WorkspaceID, "workspace_id", false); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		appCtx.WorkspaceID = req.WorkspaceID
	}
	if rid := c.GetString("request_id"); rid != "" {
		appCtx.RequestID = &rid
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// OpenWorkspace opens a workspace rooted at a directory
func (h *Handlers) OpenWorkspace(c *gin.Context) {
	var req types.OpenWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateDirectory(req.Root, "root", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws, err := h.workspaces.Open(req.Root)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.SetWorkspacesOpen(h.workspaces.Count())

	c.JSON(http.StatusCreated, ws.Info())
}

// ListWorkspaces lists open workspaces
func (h *Handlers) ListWorkspaces(c *gin.Context) {
	list := h.workspaces.List()
	infos := make([]workspace.Info, 0, len(list))
	for _, ws := range list {
		infos = append(infos, ws.Info())
	}

	c.JSON(http.StatusOK, gin.H{
		"workspaces": infos,
		"count":      len(infos),
	})
}

// GetWorkspace returns a workspace and its sessions
func (h *Handlers) GetWorkspace(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workspace": ws.Info(),
		"sessions":  sessionInfos(ws.Registry()),
	})
}

// CloseWorkspace terminates every session of a workspace and forgets it
func (h *Handlers) CloseWorkspace(c *gin.Context) {
	wsID := c.Param("id")
	if err := utils.ValidateID(wsID, "workspace_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.workspaces.Close(c.Request.Context(), wsID); err != nil {
		h.fail(c, err)
		return
	}
	h.metrics.SetWorkspacesOpen(h.workspaces.Count())

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"workspace_id": wsID,
	})
}

// ListSessions lists the terminal sessions of a workspace
func (h *Handlers) ListSessions(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	infos := sessionInfos(ws.Registry())
	c.JSON(http.StatusOK, gin.H{
		"sessions": infos,
		"count":    len(infos),
	})
}

// OpenSession returns the session for a directory, starting it if needed
func (h *Handlers) OpenSession(c *gin.Context) {
	wsID := c.Param("id")
	if err := utils.ValidateID(wsID, "workspace_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req types.OpenTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateDirectory(req.Dir, "dir", false); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.workspaces.Session(wsID, req.Dir)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := session.Start(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, session.Info())
}

// GetSession returns one session
func (h *Handlers) GetSession(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Info())
}

// SessionSnapshot returns the plain-text scrollback of a session
func (h *Handlers) SessionSnapshot(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID().String(),
		"text":       session.Snapshot(),
	})
}

// KillSession terminates a session and removes it from its workspace
func (h *Handlers) KillSession(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}
	session, ok := h.sessionIn(c, ws)
	if !ok {
		return
	}

	if err := ws.Registry().Remove(c.Request.Context(), session.Identity()); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": session.ID().String(),
	})
}

func (h *Handlers) workspace(c *gin.Context) (*workspace.Workspace, bool) {
	wsID := c.Param("id")
	if err := utils.ValidateID(wsID, "workspace_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	ws, ok := h.workspaces.Get(wsID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": workspace.ErrNotFound.Error()})
		return nil, false
	}
	return ws, true
}

func (h *Handlers) session(c *gin.Context) (*terminal.Session, bool) {
	ws, ok := h.workspace(c)
	if !ok {
		return nil, false
	}
	return h.sessionIn(c, ws)
}

func (h *Handlers) sessionIn(c *gin.Context, ws *workspace.Workspace) (*terminal.Session, bool) {
	sid := c.Param("sid")
	if err := utils.ValidateID(sid, "session_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	session, ok := ws.Registry().Find(id.SessionID(sid))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": terminal.ErrSessionNotFound.Error()})
		return nil, false
	}
	return session, true
}

// fail maps domain errors onto HTTP status codes.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor returns the HTTP status for an error from the workspace or terminal layer.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, workspace.ErrNotFound), errors.Is(err, terminal.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, terminal.ErrInvalidIdentity), errors.Is(err, terminal.ErrInvalidSize):
		return http.StatusBadRequest
	case errors.Is(err, terminal.ErrSessionTerminated), errors.Is(err, terminal.ErrSessionNotStarted),
		errors.Is(err, terminal.ErrRegistryClosed):
		return http.StatusConflict
	case errors.Is(err, terminal.ErrSpawnFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func sessionInfos(r *terminal.Registry) []terminal.SessionInfo {
	sessions := r.List()
	infos := make([]terminal.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	return infos
}
