// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components never build their own loggers. They receive a *zap.Logger
// (usually a Named child of the process logger) and fall back to a no-op
// logger when none is given.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Terminal spawned", zap.String("identity", "/src/app"), zap.Int("pid", 4242))
//	logger.Error("Spawn failed", zap.Error(err))
package logging
