// Package workspace reads and writes the launcher's on-disk state.
//
// Layout under the config directory (default ~/.zebras-launcher):
//
//	workspaces.json          index of known workspaces
//	workspaces/<id>.json     one workspace with its projects and settings
//
// PortWriter persists a resolved port into a project's local override:
// zebra.local.json for v2 projects, zebras.config.local.ts for v3.
package workspace
