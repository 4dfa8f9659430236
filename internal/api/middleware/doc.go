// Package middleware provides the HTTP middleware stack.
//
//   - CORS: Cross-origin access for the editor frontend, WebSockets included
//   - RateLimit: Per-IP token bucket; a stricter instance guards shell spawns
//   - RequestID / Logger: Request correlation and zap request logging
package middleware
