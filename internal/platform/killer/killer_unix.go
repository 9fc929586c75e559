//go:build !windows

package killer

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// TreeKiller kills a process tree with TERM then KILL, children first
type TreeKiller struct {
	grace    time.Duration
	children func(pid int) ([]int, error)
	signal   func(pid int, sig unix.Signal) error
	sleep    func(time.Duration)
	logger   *zap.Logger
}

// New creates a TreeKiller. A non-positive grace uses DefaultGrace.
func New(grace time.Duration, logger *zap.Logger) *TreeKiller {
	if grace <= 0 {
		grace = DefaultGrace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeKiller{
		grace:    grace,
		children: listChildren,
		signal:   unix.Kill,
		sleep:    time.Sleep,
		logger:   logger,
	}
}

// KillTree kills pid and every descendant, deepest first
func (k *TreeKiller) KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	return k.kill(pid, map[int]struct{}{})
}

func (k *TreeKiller) kill(pid int, seen map[int]struct{}) error {
	if _, ok := seen[pid]; ok {
		return nil
	}
	seen[pid] = struct{}{}

	children, err := k.children(pid)
	if err != nil {
		k.logger.Debug("Failed to list child processes", zap.Int("pid", pid), zap.Error(err))
	}

	for _, child := range children {
		if err := k.kill(child, seen); err != nil {
			k.logger.Debug("Failed to kill child process", zap.Int("pid", child), zap.Error(err))
		}
	}

	if err := k.signal(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		k.logger.Debug("SIGTERM failed", zap.Int("pid", pid), zap.Error(err))
	}

	k.sleep(k.grace)

	if err := k.signal(pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("%w: pid %d: %v", types.ErrKillFailure, pid, err)
	}

	return nil
}

// listChildren returns the direct children of pid.
// pgrep exits 1 when nothing matches.
func listChildren(pid int) ([]int, error) {
	out, err := exec.Command("pgrep", "-P", strconv.Itoa(pid)).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil, nil
		}
		return nil, err
	}
	return parsePIDs(out), nil
}

func parsePIDs(out []byte) []int {
	var pids []int
	for _, field := range bytes.Fields(out) {
		pid, err := strconv.Atoi(string(field))
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}
