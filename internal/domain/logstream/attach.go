package logstream

import (
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Pipes holds the two output pipes of an unstarted command
type Pipes struct {
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// Attach connects stdout and stderr pipes to cmd. Call before cmd.Start.
func Attach(cmd *exec.Cmd) (*Pipes, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	return &Pipes{stdout: stdout, stderr: stderr}, nil
}

// Follow reads both pipes on their own goroutines and calls emit per line.
// The returned channel is closed once both pipes reach EOF; cmd.Wait must
// not be called before that.
func (p *Pipes) Follow(emit func(stream types.Stream, line string), logger *zap.Logger) <-chan struct{} {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		Follow(p.stdout, func(line string) { emit(types.StreamStdout, line) }, logger)
	}()
	go func() {
		defer wg.Done()
		Follow(p.stderr, func(line string) { emit(types.StreamStderr, line) }, logger)
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return done
}
