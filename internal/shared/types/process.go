package types

import "time"

// ProcessStatus represents dev-server lifecycle states.
// Only Running is observable from the supervisor: a record is either tracked or gone.
type ProcessStatus string

const (
	ProcessStarting ProcessStatus = "starting"
	ProcessRunning  ProcessStatus = "running"
	ProcessStopping ProcessStatus = "stopping"
	ProcessStopped  ProcessStatus = "stopped"
	ProcessCrashed  ProcessStatus = "crashed"
	ProcessError    ProcessStatus = "error"
)

// ProcessRecord describes one supervised dev-server process
type ProcessRecord struct {
	ProcessID   string        `json:"process_id"`
	ProjectID   string        `json:"project_id"`
	ProjectName string        `json:"project_name"`
	Status      ProcessStatus `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	PID         int           `json:"pid"`
}

// TaskKind names a one-shot maintenance command
type TaskKind string

const (
	TaskNpmInstall  TaskKind = "npm_install"
	TaskPnpmInstall TaskKind = "pnpm_install"
	TaskNpmDeploy   TaskKind = "npm_deploy"
)

// Invocation returns the program and arguments for a task kind
func (k TaskKind) Invocation() (program string, args []string, ok bool) {
	switch k {
	case TaskNpmInstall:
		return "npm", []string{"install"}, true
	case TaskPnpmInstall:
		return "pnpm", []string{"install"}, true
	case TaskNpmDeploy:
		return "npm", []string{"run", "deploy"}, true
	default:
		return "", nil, false
	}
}
