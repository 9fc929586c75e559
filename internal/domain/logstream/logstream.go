// Package logstream turns a child's output pipe into line events.
package logstream

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Follow reads r until EOF and calls emit once per line, in order.
// Trailing CR/LF is stripped and invalid UTF-8 is replaced. A panic in emit
// is recovered and logged, and reading continues so the pipe keeps draining.
func Follow(r io.Reader, emit func(line string), logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			safeEmit(emit, clean(line), logger)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				logger.Debug("Log stream read ended", zap.Error(err))
			}
			return
		}
	}
}

func safeEmit(emit func(string), line string, logger *zap.Logger) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Log line handler panicked", zap.Any("panic", rec))
		}
	}()
	emit(line)
}

func clean(line string) string {
	line = strings.TrimRight(line, "\r\n")
	return strings.ToValidUTF8(line, "�")
}
