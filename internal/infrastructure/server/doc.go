// Package server assembles the launcher backend: it builds the platform
// helpers, the supervision root, workspace storage and the port service,
// mounts them on a Gin router and owns graceful shutdown.
package server
