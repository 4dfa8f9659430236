// Package ws streams terminal sessions over WebSocket.
//
// Each connection is one terminal view: the handler resolves the session for
// the requested directory, replays its scrollback, attaches a view (starting
// the shell on first use) and then relays I/O until the client leaves.
// Leaving detaches the view; the shell keeps running for the next attach.
//
// Message Types (Client → Server, JSON):
//   - input: Keyboard input for the shell
//   - resize: New cols/rows
//   - refresh: Re-run the appearance step
//   - ping: Keep-alive ping
//
// Message Types (Server → Client):
//   - binary frames: Raw shell output
//   - attached: View id and session info
//   - palette: Theme palette for the client renderer
//   - exit: Shell exit code
//   - pong / error
//
// Example Usage:
//
//	handler := ws.NewHandler(workspaces, themes, metrics, cfg.Server.AllowedOrigins, logger)
//	router.GET("/workspaces/:id/terminal", handler.HandleTerminal)
package ws
