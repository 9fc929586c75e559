package types

// Stream tags which pipe a line came from
type Stream string

const (
	StreamStdout Stream = "stdout"
	StreamStderr Stream = "stderr"
)

// Event names published to the UI
const (
	EventProcessLog  = "process_log"
	EventTerminalLog = "terminal_log"
)

// LogEvent is one line of child output.
// ProcessID is set for supervised processes and tasks, SessionID for terminal commands.
type LogEvent struct {
	Event       string `json:"event"`
	ProcessID   string `json:"process_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name,omitempty"`
	Message     string `json:"message"`
	Stream      Stream `json:"stream"`
}
