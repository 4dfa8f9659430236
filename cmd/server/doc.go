// Package main is the entry point for the terminal host server.
//
// The server owns shell processes for editor workspaces: one session per
// working directory, streamed to any number of views over WebSocket.
//
// Architecture:
//
//	Editor frontend (xterm.js) → REST + WebSocket → workspace manager
//	                                             → session registry → pty
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -host 127.0.0.1 -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, every shell is terminated
package main
