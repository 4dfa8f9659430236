// Package http provides HTTP handlers and routing for the terminal host REST API.
//
// Endpoints:
//   - Health: /, /health and /metrics/json
//   - Services: /services, /services/discover, /services/execute
//   - Workspaces: /workspaces, /workspaces/:id
//   - Sessions: /workspaces/:id/sessions, /workspaces/:id/sessions/:sid[/snapshot]
//
// Live terminal I/O is served by package ws; these endpoints cover lifecycle
// and inspection. Domain errors map to status codes through StatusFor.
//
// Example Usage:
//
//	handlers := http.NewHandlers(workspaces, registry, metrics, logger)
//	handlers.Register(router, middleware.RateLimit(spawnLimit))
package http
