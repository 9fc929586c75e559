//go:build windows

package killer

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

// taskkill exit code when the pid does not exist
const taskkillNotFound = 128

// TreeKiller kills a process tree with taskkill
type TreeKiller struct {
	run    func(pid int) error
	logger *zap.Logger
}

// New creates a TreeKiller. grace is unused: taskkill /F is immediate.
func New(_ time.Duration, logger *zap.Logger) *TreeKiller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeKiller{run: taskkill, logger: logger}
}

// KillTree kills pid and its whole subtree
func (k *TreeKiller) KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	if err := k.run(pid); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == taskkillNotFound {
			return nil
		}
		k.logger.Debug("taskkill failed", zap.Int("pid", pid), zap.Error(err))
		return fmt.Errorf("%w: pid %d: %v", types.ErrKillFailure, pid, err)
	}
	return nil
}

func taskkill(pid int) error {
	cmd := exec.Command("taskkill", "/PID", strconv.Itoa(pid), "/T", "/F")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
	return cmd.Run()
}
