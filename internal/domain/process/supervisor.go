package process

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"sync"
	"time"

	"github.com/zebras-launcher/backend/internal/domain/events"
	"github.com/zebras-launcher/backend/internal/domain/logstream"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/platform/killer"
	"github.com/zebras-launcher/backend/internal/platform/spawn"
	"github.com/zebras-launcher/backend/internal/shared/id"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Canonical dev-server invocation
const startProgram = "npm"

var startArgs = []string{"run", "start"}

// Supervisor spawns and tracks long-running dev servers
type Supervisor struct {
	mu        sync.Mutex
	processes map[string]*handle // Protected by mu
	factory   spawn.Factory
	killer    killer.Killer
	sink      events.Sink
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	now       func() time.Time
}

// handle pairs the public record with its command. mu orders the reaper
// against Stop so a released PID is never signalled.
type handle struct {
	record types.ProcessRecord
	cmd    *exec.Cmd
	done   <-chan struct{}

	mu      sync.Mutex
	exited  bool // Reaped by the exit watcher; protected by mu
	stopped bool // Killed by Stop; protected by mu
}

// NewSupervisor creates a supervisor
func NewSupervisor(factory spawn.Factory, k killer.Killer, sink events.Sink, logger *zap.Logger) *Supervisor {
	if sink == nil {
		sink = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Supervisor{
		processes: make(map[string]*handle),
		factory:   factory,
		killer:    k,
		sink:      sink,
		logger:    logger,
		now:       time.Now,
	}
}

// WithMetrics adds metrics tracking to the supervisor
func (s *Supervisor) WithMetrics(metrics *monitoring.Metrics) *Supervisor {
	s.metrics = metrics
	return s
}

// Start launches a project's dev server and begins streaming its output
func (s *Supervisor) Start(projectID, projectName, projectPath string) (types.ProcessRecord, error) {
	processID := id.NewProcessID().String()
	log := s.logger.With(
		zap.String("process_id", processID),
		zap.String("project", projectName),
	)

	cmd := s.factory.Program(projectPath, startProgram, startArgs...)
	pipes, err := logstream.Attach(cmd)
	if err != nil {
		return types.ProcessRecord{}, fmt.Errorf("%w: %s: %v", types.ErrSpawnFailure, projectName, err)
	}
	if err := cmd.Start(); err != nil {
		log.Warn("Failed to start dev server", zap.String("path", projectPath), zap.Error(err))
		return types.ProcessRecord{}, fmt.Errorf("%w: %s: %v", types.ErrSpawnFailure, projectName, err)
	}

	record := types.ProcessRecord{
		ProcessID:   processID,
		ProjectID:   projectID,
		ProjectName: projectName,
		Status:      types.ProcessRunning,
		StartedAt:   s.now(),
		PID:         cmd.Process.Pid,
	}

	h := &handle{record: record, cmd: cmd}
	h.done = pipes.Follow(s.emitter(types.LogEvent{
		Event:       types.EventProcessLog,
		ProcessID:   processID,
		ProjectID:   projectID,
		ProjectName: projectName,
	}), log)

	s.mu.Lock()
	s.processes[processID] = h
	count := len(s.processes)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.IncProcessesStarted()
		s.metrics.SetProcessesRunning(count)
	}

	go s.reap(h, log)

	log.Info("Dev server started", zap.Int("pid", record.PID))
	return record, nil
}

// reap collects a dev server that exits on its own. The record stays
// tracked until Stop or StopAll; only the kill is skipped from then on.
// Where the exit cannot be observed without reaping, the child stays a
// zombie holding its PID until Stop.
func (s *Supervisor) reap(h *handle, log *zap.Logger) {
	<-h.done
	if !awaitExit(h.cmd.Process.Pid) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	err := h.cmd.Wait()
	h.exited = true
	if err != nil {
		log.Info("Dev server exited", zap.Int("exit_code", h.cmd.ProcessState.ExitCode()), zap.Error(err))
		return
	}
	log.Info("Dev server exited", zap.Int("exit_code", 0))
}

// release reaps a killed child once its output has drained
func release(h *handle) {
	<-h.done
	_ = h.cmd.Wait()
}

// Stop untracks a process and kills its tree
func (s *Supervisor) Stop(processID string) error {
	s.mu.Lock()
	h, ok := s.processes[processID]
	if ok {
		delete(s.processes, processID)
	}
	count := len(s.processes)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: process %s", types.ErrNotFound, processID)
	}

	if s.metrics != nil {
		s.metrics.SetProcessesRunning(count)
	}

	log := s.logger.With(
		zap.String("process_id", processID),
		zap.String("project", h.record.ProjectName),
		zap.Int("pid", h.record.PID),
	)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exited {
		if s.metrics != nil {
			s.metrics.RecordStop("exited")
		}
		log.Info("Dev server already exited")
		return nil
	}
	h.stopped = true

	err := s.killer.KillTree(h.record.PID)
	go release(h)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncKillFailures()
			s.metrics.RecordStop("error")
		}
		log.Warn("Failed to kill process tree", zap.Error(err))
		if !errors.Is(err, types.ErrKillFailure) {
			err = fmt.Errorf("%w: %v", types.ErrKillFailure, err)
		}
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordStop("success")
	}
	log.Info("Dev server stopped")
	return nil
}

// StopAll stops every tracked process. Every process is attempted; the
// returned error joins the individual failures.
func (s *Supervisor) StopAll() error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.processes))
	for processID := range s.processes {
		ids = append(ids, processID)
	}
	s.mu.Unlock()

	var errs []error
	for _, processID := range ids {
		if err := s.Stop(processID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StartAll starts every startable project, logging and skipping failures
func (s *Supervisor) StartAll(projects []types.Project) []types.ProcessRecord {
	started := make([]types.ProcessRecord, 0, len(projects))
	for _, p := range projects {
		if !p.Startable() {
			s.logger.Debug("Skipping project", zap.String("project", p.Name), zap.Bool("valid", p.IsValid))
			continue
		}
		record, err := s.Start(p.ID, p.Name, p.Path)
		if err != nil {
			s.logger.Warn("Failed to start project", zap.String("project", p.Name), zap.Error(err))
			continue
		}
		started = append(started, record)
	}
	return started
}

// RunTask runs a one-shot task, streams its output and waits for it to exit
func (s *Supervisor) RunTask(projectID, projectName, projectPath string, task types.TaskKind) error {
	program, args, ok := task.Invocation()
	if !ok {
		return fmt.Errorf("%w: %q", types.ErrUnsupportedTask, task)
	}

	processID := id.NewProcessID().String()
	log := s.logger.With(
		zap.String("process_id", processID),
		zap.String("project", projectName),
		zap.String("task", string(task)),
	)

	cmd := s.factory.Program(projectPath, program, args...)
	pipes, err := logstream.Attach(cmd)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrSpawnFailure, task, err)
	}
	if err := cmd.Start(); err != nil {
		s.recordTask(task, "spawn_error")
		log.Warn("Failed to start task", zap.Error(err))
		return fmt.Errorf("%w: %s: %v", types.ErrSpawnFailure, task, err)
	}

	log.Info("Task started", zap.Int("pid", cmd.Process.Pid))

	<-pipes.Follow(s.emitter(types.LogEvent{
		Event:       types.EventProcessLog,
		ProcessID:   processID,
		ProjectID:   projectID,
		ProjectName: projectName,
	}), log)

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			s.recordTask(task, "failure")
			log.Warn("Task failed", zap.Int("exit_code", exitErr.ExitCode()))
			return &types.ExitError{Code: exitErr.ExitCode()}
		}
		s.recordTask(task, "failure")
		return fmt.Errorf("wait for %s: %w", task, err)
	}

	s.recordTask(task, "success")
	log.Info("Task finished")
	return nil
}

// Get returns a copy of a tracked record
func (s *Supervisor) Get(processID string) (types.ProcessRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.processes[processID]
	if !ok {
		return types.ProcessRecord{}, false
	}
	return h.record, true
}

// IsRunning reports whether processID is tracked
func (s *Supervisor) IsRunning(processID string) bool {
	_, ok := s.Get(processID)
	return ok
}

// List returns copies of all tracked records, oldest first
func (s *Supervisor) List() []types.ProcessRecord {
	s.mu.Lock()
	records := make([]types.ProcessRecord, 0, len(s.processes))
	for _, h := range s.processes {
		records = append(records, h.record)
	}
	s.mu.Unlock()

	slices.SortFunc(records, func(a, b types.ProcessRecord) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		if a.ProcessID < b.ProcessID {
			return -1
		}
		if a.ProcessID > b.ProcessID {
			return 1
		}
		return 0
	})
	return records
}

// emitter publishes one event per line built from base
func (s *Supervisor) emitter(base types.LogEvent) func(types.Stream, string) {
	return func(stream types.Stream, line string) {
		event := base
		event.Stream = stream
		event.Message = line
		s.sink.Publish(event)
		if s.metrics != nil {
			s.metrics.IncLogLines("process", string(stream))
		}
	}
}

func (s *Supervisor) recordTask(task types.TaskKind, result string) {
	if s.metrics != nil {
		s.metrics.RecordTask(string(task), result)
	}
}
