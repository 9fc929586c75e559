package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyRunning     = errors.New("session is already running a command")
	ErrEmptyCommand       = errors.New("command must not be empty")
	ErrTooManySessions    = errors.New("too many terminal sessions for project")
	ErrNoActiveProcess    = errors.New("session has no running process")
	ErrSpawnFailure       = errors.New("failed to start process")
	ErrKillFailure        = errors.New("failed to stop process")
	ErrPortExhausted      = errors.New("no free port in range")
	ErrConfigWriteFailure = errors.New("failed to write port configuration")
	ErrUnsupportedTask    = errors.New("unsupported task")
	ErrInvalidPortRange   = errors.New("invalid port range")
)

// ExitError reports a task that ran but exited non-zero
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// ExitCode extracts the exit code from err, if it carries one
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// Message returns a short human-readable message for err
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrAlreadyRunning):
		return "This terminal is already running a command"
	case errors.Is(err, ErrEmptyCommand):
		return "Command cannot be empty"
	case errors.Is(err, ErrTooManySessions):
		return "Too many terminals are open for this project"
	case errors.Is(err, ErrNoActiveProcess):
		return "This terminal has no running process"
	case errors.Is(err, ErrSpawnFailure):
		return "Failed to start the command"
	case errors.Is(err, ErrKillFailure):
		return "Failed to stop the process"
	case errors.Is(err, ErrPortExhausted):
		return "No free port left in the configured range"
	case errors.Is(err, ErrConfigWriteFailure):
		return "Failed to save the port configuration"
	case errors.Is(err, ErrUnsupportedTask):
		return "Unsupported task type"
	case errors.Is(err, ErrInvalidPortRange):
		return "Invalid port range"
	}
	if code, ok := ExitCode(err); ok {
		return fmt.Sprintf("Command exited with code %d", code)
	}
	return err.Error()
}

// StatusCode maps err to an HTTP status code
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyRunning), errors.Is(err, ErrNoActiveProcess):
		return http.StatusConflict
	case errors.Is(err, ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrEmptyCommand), errors.Is(err, ErrUnsupportedTask), errors.Is(err, ErrInvalidPortRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrPortExhausted):
		return http.StatusUnprocessableEntity
	}
	if _, ok := ExitCode(err); ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
