//go:build !windows

package killer

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

type signalRecord struct {
	pid int
	sig unix.Signal
}

func fakeKiller(tree map[int][]int, signal func(pid int, sig unix.Signal) error) (*TreeKiller, *[]signalRecord) {
	var sent []signalRecord
	k := New(time.Millisecond, zap.NewNop())
	k.children = func(pid int) ([]int, error) { return tree[pid], nil }
	k.sleep = func(time.Duration) {}
	k.signal = func(pid int, sig unix.Signal) error {
		sent = append(sent, signalRecord{pid, sig})
		if signal != nil {
			return signal(pid, sig)
		}
		return nil
	}
	return k, &sent
}

func killIndex(sent []signalRecord, pid int) int {
	for i, r := range sent {
		if r.pid == pid && r.sig == unix.SIGKILL {
			return i
		}
	}
	return -1
}

func TestKillTreeOrder(t *testing.T) {
	// root 100 has children 200 and 300; 200 has child 400
	tree := map[int][]int{
		100: {200, 300},
		200: {400},
	}
	k, sent := fakeKiller(tree, nil)

	require.NoError(t, k.KillTree(100))

	want := []signalRecord{
		{400, unix.SIGTERM}, {400, unix.SIGKILL},
		{200, unix.SIGTERM}, {200, unix.SIGKILL},
		{300, unix.SIGTERM}, {300, unix.SIGKILL},
		{100, unix.SIGTERM}, {100, unix.SIGKILL},
	}
	assert.Equal(t, want, *sent)

	assert.Less(t, killIndex(*sent, 400), killIndex(*sent, 200))
	assert.Less(t, killIndex(*sent, 200), killIndex(*sent, 100))
}

func TestKillTreeMissingProcess(t *testing.T) {
	k, _ := fakeKiller(nil, func(int, unix.Signal) error { return unix.ESRCH })
	assert.NoError(t, k.KillTree(42))
}

func TestKillTreeForceFailure(t *testing.T) {
	k, _ := fakeKiller(nil, func(_ int, sig unix.Signal) error {
		if sig == unix.SIGKILL {
			return unix.EPERM
		}
		return nil
	})

	err := k.KillTree(42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrKillFailure))
}

func TestKillTreeChildFailureDoesNotStopRoot(t *testing.T) {
	tree := map[int][]int{1: {2}}
	k, sent := fakeKiller(tree, func(pid int, sig unix.Signal) error {
		if pid == 2 && sig == unix.SIGKILL {
			return unix.EPERM
		}
		return nil
	})

	require.NoError(t, k.KillTree(1))
	assert.GreaterOrEqual(t, killIndex(*sent, 1), 0)
}

func TestKillTreeListFailure(t *testing.T) {
	k, sent := fakeKiller(nil, nil)
	k.children = func(int) ([]int, error) { return nil, fmt.Errorf("pgrep missing") }

	require.NoError(t, k.KillTree(7))
	assert.Len(t, *sent, 2)
}

func TestKillTreeCycle(t *testing.T) {
	tree := map[int][]int{1: {2}, 2: {1}}
	k, sent := fakeKiller(tree, nil)

	require.NoError(t, k.KillTree(1))
	assert.Len(t, *sent, 4)
}

func TestKillTreeInvalidPID(t *testing.T) {
	k, sent := fakeKiller(nil, nil)
	assert.NoError(t, k.KillTree(0))
	assert.NoError(t, k.KillTree(-5))
	assert.Empty(t, *sent)
}

func TestParsePIDs(t *testing.T) {
	assert.Equal(t, []int{12, 34}, parsePIDs([]byte("12\n34\n")))
	assert.Empty(t, parsePIDs([]byte("")))
	assert.Equal(t, []int{5}, parsePIDs([]byte("x\n5\n-1\n")))
}

func TestKillTreeRealProcess(t *testing.T) {
	if _, err := exec.LookPath("pgrep"); err != nil {
		t.Skip("pgrep not available")
	}

	cmd := exec.Command("sh", "-c", "sleep 30 & sleep 30; wait")
	require.NoError(t, cmd.Start())

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	// Give the shell a moment to fork its children
	time.Sleep(100 * time.Millisecond)

	k := New(DefaultGrace, zap.NewNop())
	require.NoError(t, k.KillTree(cmd.Process.Pid))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process tree still alive after KillTree")
	}

	// Killing again is a no-op on a dead tree
	assert.NoError(t, k.KillTree(cmd.Process.Pid))
}

func TestFunc(t *testing.T) {
	var got int
	var k Killer = Func(func(pid int) error { got = pid; return nil })
	require.NoError(t, k.KillTree(9))
	assert.Equal(t, 9, got)
}
