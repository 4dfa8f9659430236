package http

import "github.com/gin-gonic/gin"

// Register mounts the REST API on r. spawn guards the routes that may
// start a shell.
func (h *Handlers) Register(r gin.IRouter, spawn ...gin.HandlerFunc) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/json", h.Stats)

	// Service management
	r.GET("/services", h.ListServices)
	r.GET("/services/discover", h.DiscoverServices)
	r.POST("/services/execute", h.ExecuteService)

	// Workspaces
	r.POST("/workspaces", h.OpenWorkspace)
	r.GET("/workspaces", h.ListWorkspaces)
	r.GET("/workspaces/:id", h.GetWorkspace)
	r.DELETE("/workspaces/:id", h.CloseWorkspace)

	// Sessions
	r.GET("/workspaces/:id/sessions", h.ListSessions)
	r.POST("/workspaces/:id/sessions", chain(spawn, h.OpenSession)...)
	r.GET("/workspaces/:id/sessions/:sid", h.GetSession)
	r.GET("/workspaces/:id/sessions/:sid/snapshot", h.SessionSnapshot)
	r.DELETE("/workspaces/:id/sessions/:sid", h.KillSession)
}

func chain(before []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(before)+1)
	return append(append(out, before...), h)
}
