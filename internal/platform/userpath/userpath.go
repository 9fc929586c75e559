// Package userpath computes the PATH handed to spawned children.
//
// Processes launched from a desktop session do not inherit the PATH of an
// interactive shell, so package managers installed through nvm, fnm, volta
// or Homebrew are invisible to them. On POSIX the resolver asks the user's
// login shell for its PATH and falls back to a list of well-known install
// locations. The result is computed once and cached.
package userpath

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Resolver computes and caches the widened PATH
type Resolver struct {
	once sync.Once
	path string

	home       string
	systemPath string
	loginShell func() (string, error)
	logger     *zap.Logger
}

// New creates a Resolver for the current user
func New(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return &Resolver{
		home:       home,
		systemPath: os.Getenv("PATH"),
		loginShell: loginShellPath,
		logger:     logger,
	}
}

// Path returns the widened PATH
func (r *Resolver) Path() string {
	r.once.Do(func() {
		r.path = r.compute()
	})
	return r.path
}

// Resolve finds program in the widened PATH and returns its full path
func (r *Resolver) Resolve(program string) (string, bool) {
	if filepath.IsAbs(program) {
		return program, isFile(program)
	}
	for _, dir := range filepath.SplitList(r.Path()) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, program)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
