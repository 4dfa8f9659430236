/*
Package monitoring provides Prometheus metrics for the terminal host.

# Overview

Metrics tracks HTTP requests, service tool calls, WebSocket traffic and the
terminal lifecycle: spawned shells, spawn failures, exits, appearance
refreshes and attached views. It satisfies terminal.Observer, so registries
report into it directly.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "terminal", "open")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
