package terminal

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"github.com/zebras-launcher/backend/internal/domain/events"
	"github.com/zebras-launcher/backend/internal/domain/logstream"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/platform/killer"
	"github.com/zebras-launcher/backend/internal/platform/spawn"
	"github.com/zebras-launcher/backend/internal/shared/id"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// DefaultMaxSessions is the per-project session cap
const DefaultMaxSessions = 3

// Manager owns all terminal sessions
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*session // Protected by mu
	maxSessions int
	factory     spawn.Factory
	killer      killer.Killer
	sink        events.Sink
	logger      *zap.Logger
	metrics     *monitoring.Metrics
}

// session is the tracked state. run increments per command so that a
// finished command cannot overwrite the state of a newer one.
type session struct {
	info types.TerminalSession
	run  uint64
}

// NewManager creates a terminal manager
func NewManager(factory spawn.Factory, k killer.Killer, sink events.Sink, logger *zap.Logger) *Manager {
	if sink == nil {
		sink = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions:    make(map[string]*session),
		maxSessions: DefaultMaxSessions,
		factory:     factory,
		killer:      k,
		sink:        sink,
		logger:      logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithMaxSessions overrides the per-project session cap
func (m *Manager) WithMaxSessions(n int) *Manager {
	if n > 0 {
		m.maxSessions = n
	}
	return m
}

// CreateSession opens an idle session for a project
func (m *Manager) CreateSession(projectID string) (types.TerminalSession, error) {
	m.mu.Lock()
	count := 0
	for _, s := range m.sessions {
		if s.info.ProjectID == projectID {
			count++
		}
	}
	if count >= m.maxSessions {
		m.mu.Unlock()
		return types.TerminalSession{}, fmt.Errorf("%w: project %s has %d", types.ErrTooManySessions, projectID, count)
	}

	s := &session{info: types.TerminalSession{
		SessionID: id.NewTerminalID().String(),
		ProjectID: projectID,
		Status:    types.TerminalIdle,
	}}
	m.sessions[s.info.SessionID] = s
	out := s.info.Clone()
	total := len(m.sessions)
	m.mu.Unlock()

	m.setGauge(total)
	m.logger.Debug("Terminal session created",
		zap.String("session_id", out.SessionID),
		zap.String("project_id", projectID))
	return out, nil
}

// ListSessions returns copies of a project's sessions, oldest first
func (m *Manager) ListSessions(projectID string) []types.TerminalSession {
	m.mu.Lock()
	out := make([]types.TerminalSession, 0, m.maxSessions)
	for _, s := range m.sessions {
		if s.info.ProjectID == projectID {
			out = append(out, s.info.Clone())
		}
	}
	m.mu.Unlock()

	// Session IDs are ULIDs, so this is creation order
	slices.SortFunc(out, func(a, b types.TerminalSession) int {
		return strings.Compare(a.SessionID, b.SessionID)
	})
	return out
}

// Get returns a copy of one session
func (m *Manager) Get(sessionID string) (types.TerminalSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return types.TerminalSession{}, false
	}
	return s.info.Clone(), true
}

// RunCommand runs command through the platform shell in projectPath.
// It returns once the command has started; completion is reported through
// the session status and a final "[exit]" log line.
func (m *Manager) RunCommand(sessionID, projectPath, command string) error {
	if strings.TrimSpace(command) == "" {
		return types.ErrEmptyCommand
	}

	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: session %s", types.ErrNotFound, sessionID)
	}
	if s.info.Status == types.TerminalRunning {
		m.mu.Unlock()
		return fmt.Errorf("%w: session %s", types.ErrAlreadyRunning, sessionID)
	}
	cmdText := command
	s.info.Command = &cmdText
	s.info.Status = types.TerminalRunning
	s.info.PID = nil
	s.run++
	run := s.run
	projectID := s.info.ProjectID
	m.mu.Unlock()

	log := m.logger.With(zap.String("session_id", sessionID), zap.String("project_id", projectID))

	cmd := m.factory.Shell(projectPath, command)
	pipes, err := logstream.Attach(cmd)
	if err == nil {
		err = cmd.Start()
	}
	if err != nil {
		m.update(sessionID, run, types.TerminalError)
		log.Warn("Failed to start terminal command", zap.Error(err))
		return fmt.Errorf("%w: %v", types.ErrSpawnFailure, err)
	}

	pid := cmd.Process.Pid
	m.mu.Lock()
	s, ok = m.sessions[sessionID]
	if ok && s.run == run {
		s.info.PID = &pid
	}
	m.mu.Unlock()

	if !ok {
		// Closed while spawning; nothing else will kill this child
		if err := m.killer.KillTree(pid); err != nil {
			log.Warn("Failed to kill orphaned terminal command", zap.Int("pid", pid), zap.Error(err))
		}
		go func() { _ = cmd.Wait() }()
		return fmt.Errorf("%w: session %s", types.ErrNotFound, sessionID)
	}

	base := types.LogEvent{
		Event:     types.EventTerminalLog,
		SessionID: sessionID,
		ProjectID: projectID,
	}
	done := pipes.Follow(m.emitter(base), log)
	go m.watch(cmd, done, sessionID, run, base, log)

	log.Info("Terminal command started", zap.Int("pid", pid))
	return nil
}

// watch waits for a command to exit, records the final status and
// publishes the exit line after the last output line
func (m *Manager) watch(cmd *exec.Cmd, done <-chan struct{}, sessionID string, run uint64, base types.LogEvent, log *zap.Logger) {
	<-done
	err := cmd.Wait()

	status := types.TerminalCompleted
	code, hasCode := 0, true
	if err != nil {
		status = types.TerminalError
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
			code = exitErr.ExitCode()
		} else {
			hasCode = false
		}
	}

	m.update(sessionID, run, status)
	if m.metrics != nil {
		m.metrics.RecordTerminalCommand(string(status))
	}

	msg := "[exit]"
	if hasCode {
		msg = fmt.Sprintf("[exit] code=%d", code)
	}
	exit := base
	exit.Stream = types.StreamStdout
	exit.Message = msg
	m.sink.Publish(exit)

	log.Info("Terminal command exited", zap.String("status", string(status)), zap.Error(err))
}

// update sets the status of run and clears its pid; stale runs are ignored
func (m *Manager) update(sessionID string, run uint64, status types.TerminalStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.run != run {
		return
	}
	s.info.Status = status
	s.info.PID = nil
}

// KillSession kills the running command of a session
func (m *Manager) KillSession(sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: session %s", types.ErrNotFound, sessionID)
	}
	if s.info.PID == nil {
		m.mu.Unlock()
		return fmt.Errorf("%w: session %s", types.ErrNoActiveProcess, sessionID)
	}
	pid := *s.info.PID
	run := s.run
	m.mu.Unlock()

	if err := m.killer.KillTree(pid); err != nil {
		if m.metrics != nil {
			m.metrics.IncKillFailures()
		}
		if !errors.Is(err, types.ErrKillFailure) {
			err = fmt.Errorf("%w: %v", types.ErrKillFailure, err)
		}
		return err
	}

	// The command may have finished on its own while being killed
	m.mu.Lock()
	if s, ok := m.sessions[sessionID]; ok && s.run == run && s.info.Status == types.TerminalRunning {
		s.info.Status = types.TerminalError
		s.info.PID = nil
	}
	m.mu.Unlock()

	m.logger.Info("Terminal command killed", zap.String("session_id", sessionID), zap.Int("pid", pid))
	return nil
}

// CloseSession removes a session, killing its command if one is running
func (m *Manager) CloseSession(sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	total := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: session %s", types.ErrNotFound, sessionID)
	}
	m.setGauge(total)

	if s.info.PID != nil {
		if err := m.killer.KillTree(*s.info.PID); err != nil {
			m.logger.Warn("Failed to kill closed session command",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	m.logger.Debug("Terminal session closed", zap.String("session_id", sessionID))
	return nil
}

// StopAll kills every running command and drops all sessions. Kill
// failures are logged, never returned.
func (m *Manager) StopAll() {
	m.mu.Lock()
	var pids []int
	for _, s := range m.sessions {
		if s.info.PID != nil {
			pids = append(pids, *s.info.PID)
		}
	}
	clear(m.sessions)
	m.mu.Unlock()

	m.setGauge(0)

	for _, pid := range pids {
		if err := m.killer.KillTree(pid); err != nil {
			m.logger.Warn("Failed to kill terminal command", zap.Int("pid", pid), zap.Error(err))
		}
	}
}

func (m *Manager) emitter(base types.LogEvent) func(types.Stream, string) {
	return func(stream types.Stream, line string) {
		event := base
		event.Stream = stream
		event.Message = line
		m.sink.Publish(event)
		if m.metrics != nil {
			m.metrics.IncLogLines("terminal", string(stream))
		}
	}
}

func (m *Manager) setGauge(total int) {
	if m.metrics != nil {
		m.metrics.SetTerminalSessions(total)
	}
}
