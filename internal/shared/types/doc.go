// Package types provides shared data structures for the launcher backend.
//
// This package defines the records exchanged between the supervisor, the
// terminal manager, the port allocator and the API layer. Managers own their
// maps; everything in here is handed out by value.
//
// Core Types:
//   - ProcessRecord: A tracked dev-server process
//   - TerminalSession: An ad-hoc command session scoped to a project
//   - Project, Workspace, WorkspaceRef: Collaborator-provided configuration
//   - PortChange: One port reassignment made during conflict resolution
//   - LogEvent: One line of child output published to the UI
//
// Errors:
//   - Sentinel errors (ErrNotFound, ErrTooManySessions, ...) shared by all managers
//   - Message and StatusCode map them for the API surface
package types
