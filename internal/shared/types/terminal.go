package types

// TerminalStatus represents the terminal session state machine:
// idle -> running -> {completed, error}; a session in any state but running accepts a new command.
type TerminalStatus string

const (
	TerminalIdle      TerminalStatus = "idle"
	TerminalRunning   TerminalStatus = "running"
	TerminalCompleted TerminalStatus = "completed"
	TerminalError     TerminalStatus = "error"
)

// TerminalSession is the public representation of a terminal session
type TerminalSession struct {
	SessionID string         `json:"session_id"`
	ProjectID string         `json:"project_id"`
	Command   *string        `json:"command,omitempty"`
	Status    TerminalStatus `json:"status"`
	PID       *int           `json:"pid,omitempty"`
}

// Clone returns a deep copy safe to hand out of the session map
func (s TerminalSession) Clone() TerminalSession {
	out := s
	if s.Command != nil {
		cmd := *s.Command
		out.Command = &cmd
	}
	if s.PID != nil {
		pid := *s.PID
		out.PID = &pid
	}
	return out
}
