// Package utils validates identifiers, commands and paths arriving at the
// API edge before they reach the supervisors or the filesystem.
package utils
