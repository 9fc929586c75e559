/*
Package monitoring provides Prometheus metrics for the launcher backend.

# Overview

Metrics live on a private registry so that several collectors can coexist
in one process (tests build a fresh one each time). The registry carries
HTTP request metrics, supervised process and terminal session gauges,
published log line counters, port reassignment counters and WebSocket
connection metrics.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	supervisor := process.NewSupervisor(factory, killer, sink, logger).WithMetrics(metrics)
*/
package monitoring
