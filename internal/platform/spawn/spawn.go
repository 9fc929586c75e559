// Package spawn builds child commands with the platform conventions the
// launcher relies on: resolved package-manager binaries, a widened PATH and
// hidden console windows on Windows.
package spawn

import (
	"os"
	"os/exec"

	"github.com/zebras-launcher/backend/internal/platform/userpath"
)

// Factory builds unstarted commands
type Factory interface {
	// Program runs a named program with args in dir
	Program(dir, program string, args ...string) *exec.Cmd
	// Shell runs a command line through the platform shell in dir
	Shell(dir, line string) *exec.Cmd
}

// Spawner is the default Factory
type Spawner struct {
	paths *userpath.Resolver
}

// New creates a Spawner resolving programs through paths
func New(paths *userpath.Resolver) *Spawner {
	return &Spawner{paths: paths}
}

// Program runs a named program with args in dir
func (s *Spawner) Program(dir, program string, args ...string) *exec.Cmd {
	cmd := exec.Command(s.resolve(program), args...)
	s.prepare(cmd, dir)
	return cmd
}

// Shell runs a command line through the platform shell in dir
func (s *Spawner) Shell(dir, line string) *exec.Cmd {
	name, flag := shell()
	cmd := exec.Command(name, flag, line)
	s.prepare(cmd, dir)
	return cmd
}

func (s *Spawner) resolve(program string) string {
	program = programName(program)
	if s.paths == nil {
		return program
	}
	if full, ok := s.paths.Resolve(program); ok {
		return full
	}
	return program
}

func (s *Spawner) prepare(cmd *exec.Cmd, dir string) {
	cmd.Dir = dir
	if s.paths != nil {
		cmd.Env = withPath(os.Environ(), s.paths.Path())
	}
	cmd.SysProcAttr = sysProcAttr()
}

// withPath returns env with PATH replaced by path
func withPath(env []string, path string) []string {
	if path == "" {
		return env
	}
	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if isPathVar(kv) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "PATH="+path)
}
