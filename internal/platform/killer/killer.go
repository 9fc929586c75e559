// Package killer terminates whole process trees.
//
// POSIX builds discover descendants with pgrep and kill them post-order,
// each with SIGTERM followed by SIGKILL after a short grace period.
// Windows builds delegate to taskkill /T /F.
package killer

import "time"

// DefaultGrace is the pause between the graceful and the forceful signal
const DefaultGrace = 50 * time.Millisecond

// Killer terminates a process and all of its descendants.
// A process that no longer exists counts as killed.
type Killer interface {
	KillTree(pid int) error
}

// Func adapts a plain function to Killer
type Func func(pid int) error

// KillTree calls f(pid)
func (f Func) KillTree(pid int) error {
	return f(pid)
}
