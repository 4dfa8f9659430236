// Package service provides the registry that routes tool calls to providers.
//
// Providers (terminal, theme, settings) describe themselves with a
// types.Service definition and execute tools named "<service>.<tool>".
//
// Example Usage:
//
//	registry := service.NewRegistry()
//	registry.Register(terminalProvider)
//	services := registry.Discover("open a shell", 5)
//	result, err := registry.Execute(ctx, "terminal.open", params, appCtx)
package service
