// Package main is the entry point for the launcher backend.
//
// The backend supervises local dev servers and terminal commands for the
// projects of a workspace, resolves port conflicts across workspaces and
// streams child output to the desktop UI.
//
// Configuration:
//   - Built-in defaults
//   - Optional YAML/TOML file (-config or LAUNCHER_CONFIG)
//   - Environment variables (12-factor)
//   - CLI flags (override everything)
//
// Usage:
//
//	# Production mode
//	./server -port 7420
//
//	# Development mode (colored logs, debug level)
//	./server -dev -config launcher.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown; every supervised child is killed
package main
