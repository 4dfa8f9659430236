// Package providers groups the service providers of the terminal host.
//
// Each provider exposes its capabilities as tools through the service
// registry, and each also owns the domain types behind those tools.
//
// Available Providers:
//   - terminal: Shell resolution, sessions, views, pty spawning
//   - theme: Theme catalog, theme files, palette projection
//   - settings: Terminal preferences and their persistence
//
// Provider Interface:
//   - Definition(): Returns service metadata and tool definitions
//   - Execute(): Executes a tool with parameters and context
//
// Example Usage:
//
//	term := terminal.NewProvider(workspaces, resolver, store, logger)
//	result, err := term.Execute(ctx, "terminal.open", params, appCtx)
package providers
