//go:build !windows

package process

import (
	"errors"
	"os/exec"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// fakeFactory runs a shell script per project directory instead of npm
type fakeFactory struct {
	mu      sync.Mutex
	scripts map[string]string
	calls   [][]string
}

func (f *fakeFactory) Program(dir, program string, args ...string) *exec.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{dir, program}, args...))

	script, ok := f.scripts[dir]
	if !ok {
		return exec.Command("/nonexistent/launcher-test-binary")
	}
	return exec.Command("sh", "-c", script)
}

func (f *fakeFactory) Shell(dir, line string) *exec.Cmd {
	return exec.Command("sh", "-c", line)
}

// MockKiller is a mock implementation of killer.Killer
type MockKiller struct {
	mock.Mock
}

func (m *MockKiller) KillTree(pid int) error {
	args := m.Called(pid)
	return args.Error(0)
}

// sigkill really terminates the child so tests leave nothing behind
func sigkill(args mock.Arguments) {
	_ = syscall.Kill(args.Int(0), syscall.SIGKILL)
}

type recordingSink struct {
	mu     sync.Mutex
	events []types.LogEvent
}

func (r *recordingSink) Publish(e types.LogEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingSink) snapshot() []types.LogEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.LogEvent(nil), r.events...)
}

func (r *recordingSink) messages(stream types.Stream) []string {
	var out []string
	for _, e := range r.snapshot() {
		if e.Stream == stream {
			out = append(out, e.Message)
		}
	}
	return out
}

func newTestSupervisor(scripts map[string]string) (*Supervisor, *MockKiller, *recordingSink, *fakeFactory) {
	factory := &fakeFactory{scripts: scripts}
	k := &MockKiller{}
	sink := &recordingSink{}
	return NewSupervisor(factory, k, sink, zap.NewNop()), k, sink, factory
}

func TestStartStreamsOutput(t *testing.T) {
	s, k, sink, factory := newTestSupervisor(map[string]string{
		"/app": "echo ready; echo warn 1>&2; exec sleep 30",
	})
	k.On("KillTree", mock.Anything).Return(nil).Run(sigkill)

	record, err := s.Start("p1", "web", "/app")
	require.NoError(t, err)

	assert.Equal(t, "p1", record.ProjectID)
	assert.Equal(t, "web", record.ProjectName)
	assert.Equal(t, types.ProcessRunning, record.Status)
	assert.Greater(t, record.PID, 0)
	assert.Contains(t, record.ProcessID, "proc_")
	assert.Equal(t, []string{"/app", "npm", "run", "start"}, factory.calls[0])

	assert.Eventually(t, func() bool {
		return len(sink.messages(types.StreamStdout)) == 1 && len(sink.messages(types.StreamStderr)) == 1
	}, 5*time.Second, 10*time.Millisecond)

	for _, e := range sink.snapshot() {
		assert.Equal(t, types.EventProcessLog, e.Event)
		assert.Equal(t, record.ProcessID, e.ProcessID)
		assert.Equal(t, "p1", e.ProjectID)
		assert.Equal(t, "web", e.ProjectName)
	}
	assert.Equal(t, []string{"ready"}, sink.messages(types.StreamStdout))
	assert.Equal(t, []string{"warn"}, sink.messages(types.StreamStderr))

	require.NoError(t, s.Stop(record.ProcessID))
	k.AssertCalled(t, "KillTree", record.PID)
}

func TestStopRemovesRecord(t *testing.T) {
	s, k, _, _ := newTestSupervisor(map[string]string{"/app": "exec sleep 30"})
	k.On("KillTree", mock.Anything).Return(nil).Run(sigkill)

	record, err := s.Start("p1", "web", "/app")
	require.NoError(t, err)
	assert.True(t, s.IsRunning(record.ProcessID))

	require.NoError(t, s.Stop(record.ProcessID))

	assert.False(t, s.IsRunning(record.ProcessID))
	assert.Empty(t, s.List())

	err = s.Stop(record.ProcessID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	k.AssertNumberOfCalls(t, "KillTree", 1)
}

func TestStopUnknown(t *testing.T) {
	s, _, _, _ := newTestSupervisor(nil)
	assert.ErrorIs(t, s.Stop("proc_missing"), types.ErrNotFound)
}

func TestConcurrentStopKillsOnce(t *testing.T) {
	s, k, _, _ := newTestSupervisor(map[string]string{"/app": "exec sleep 30"})
	k.On("KillTree", mock.Anything).Return(nil).Run(sigkill)

	record, err := s.Start("p1", "web", "/app")
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Stop(record.ProcessID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, types.ErrNotFound)
	}
	assert.Equal(t, 1, succeeded)
	k.AssertNumberOfCalls(t, "KillTree", 1)
}

func TestStopKillFailureStillUntracks(t *testing.T) {
	s, k, _, _ := newTestSupervisor(map[string]string{"/app": "exec sleep 30"})
	record, err := s.Start("p1", "web", "/app")
	require.NoError(t, err)
	t.Cleanup(func() { _ = syscall.Kill(record.PID, syscall.SIGKILL) })

	k.On("KillTree", record.PID).Return(errors.New("permission denied"))

	err = s.Stop(record.ProcessID)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrKillFailure)
	assert.False(t, s.IsRunning(record.ProcessID))
}

func TestStopAllAggregates(t *testing.T) {
	s, k, _, _ := newTestSupervisor(map[string]string{
		"/a": "exec sleep 30",
		"/b": "exec sleep 30",
	})
	a, err := s.Start("a", "a", "/a")
	require.NoError(t, err)
	b, err := s.Start("b", "b", "/b")
	require.NoError(t, err)

	k.On("KillTree", a.PID).Return(types.ErrKillFailure).Run(sigkill)
	k.On("KillTree", b.PID).Return(nil).Run(sigkill)

	err = s.StopAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrKillFailure)
	assert.Empty(t, s.List())
	k.AssertNumberOfCalls(t, "KillTree", 2)

	assert.NoError(t, s.StopAll())
}

func TestStartSpawnFailure(t *testing.T) {
	s, _, _, _ := newTestSupervisor(nil)

	_, err := s.Start("p1", "web", "/missing")
	assert.ErrorIs(t, err, types.ErrSpawnFailure)
	assert.Empty(t, s.List())
}

func TestStartAll(t *testing.T) {
	s, k, _, _ := newTestSupervisor(map[string]string{
		"/ok":       "exec sleep 30",
		"/disabled": "exec sleep 30",
	})
	k.On("KillTree", mock.Anything).Return(nil).Run(sigkill)

	disabled := false
	projects := []types.Project{
		{ID: "1", Name: "ok", Path: "/ok", IsValid: true},
		{ID: "2", Name: "invalid", Path: "/ok", IsValid: false},
		{ID: "3", Name: "disabled", Path: "/disabled", IsValid: true, Enabled: &disabled},
		{ID: "4", Name: "broken", Path: "/broken", IsValid: true},
	}

	started := s.StartAll(projects)
	require.Len(t, started, 1)
	assert.Equal(t, "ok", started[0].ProjectName)
	assert.Len(t, s.List(), 1)

	require.NoError(t, s.StopAll())
}

func TestRunTask(t *testing.T) {
	tests := []struct {
		name     string
		script   string
		task     types.TaskKind
		wantCall []string
		wantCode int
		wantErr  bool
	}{
		{"npm install ok", "echo installed", types.TaskNpmInstall, []string{"/app", "npm", "install"}, 0, false},
		{"pnpm install fails", "echo nope 1>&2; exit 3", types.TaskPnpmInstall, []string{"/app", "pnpm", "install"}, 3, true},
		{"deploy ok", "exit 0", types.TaskNpmDeploy, []string{"/app", "npm", "run", "deploy"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, sink, factory := newTestSupervisor(map[string]string{"/app": tt.script})

			err := s.RunTask("p1", "web", "/app", tt.task)
			assert.Equal(t, tt.wantCall, factory.calls[0])

			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			code, ok := types.ExitCode(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, []string{"nope"}, sink.messages(types.StreamStderr))
		})
	}
}

func TestRunTaskStreamsBeforeReturning(t *testing.T) {
	s, _, sink, _ := newTestSupervisor(map[string]string{"/app": "echo a; echo b; echo c"})

	require.NoError(t, s.RunTask("p1", "web", "/app", types.TaskNpmInstall))
	assert.Equal(t, []string{"a", "b", "c"}, sink.messages(types.StreamStdout))
	assert.Empty(t, s.List())
}

func TestRunTaskUnsupported(t *testing.T) {
	s, _, _, factory := newTestSupervisor(nil)

	err := s.RunTask("p1", "web", "/app", types.TaskKind("yarn_install"))
	assert.ErrorIs(t, err, types.ErrUnsupportedTask)
	assert.Empty(t, factory.calls)
}

func TestRunTaskSpawnFailure(t *testing.T) {
	s, _, _, _ := newTestSupervisor(nil)
	assert.ErrorIs(t, s.RunTask("p1", "web", "/missing", types.TaskNpmInstall), types.ErrSpawnFailure)
}

func TestSupervisorMetrics(t *testing.T) {
	s, k, _, _ := newTestSupervisor(map[string]string{"/app": "exec sleep 30"})
	k.On("KillTree", mock.Anything).Return(nil).Run(sigkill)
	metrics := monitoring.NewMetrics()
	s.WithMetrics(metrics)

	record, err := s.Start("p1", "web", "/app")
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.Snapshot().RunningProcesses)

	require.NoError(t, s.Stop(record.ProcessID))
	assert.Equal(t, int64(0), metrics.Snapshot().RunningProcesses)
}
