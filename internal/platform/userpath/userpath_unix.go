//go:build !windows

package userpath

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

const loginShellTimeout = 5 * time.Second

func (r *Resolver) compute() string {
	path, err := r.loginShell()
	if err == nil {
		r.logger.Debug("Using PATH from login shell")
		return path
	}
	r.logger.Debug("Login shell PATH unavailable, building fallback", zap.Error(err))
	return buildFallback(r.home, r.systemPath)
}

// loginShellPath runs a non-interactive login shell so that profile files are
// read without triggering anything that waits on a terminal
func loginShellPath() (string, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
		if runtime.GOOS == "darwin" {
			shell = "/bin/zsh"
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), loginShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, shell, "-l", "-c", "echo $PATH")
	cmd.Stdin = nil
	cmd.Stderr = nil
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return parseShellOutput(string(out))
}

// parseShellOutput takes the last non-empty line; profiles may print banners first
func parseShellOutput(out string) (string, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	path := strings.TrimSpace(lines[len(lines)-1])
	if path == "" || !strings.Contains(path, "/") {
		return "", errNoPath
	}
	return path, nil
}

func commonDirs(home string) []string {
	return []string{
		filepath.Join(home, "bin"),
		filepath.Join(home, ".local", "bin"),
		filepath.Join(home, ".local", "share", "pnpm"),
		filepath.Join(home, ".fnm", "current", "bin"),
		filepath.Join(home, "Library", "Application Support", "fnm", "current", "bin"),
		"/opt/homebrew/bin",
		"/opt/homebrew/sbin",
		"/usr/local/bin",
		"/usr/local/sbin",
		filepath.Join(home, "Library", "pnpm"),
		filepath.Join(home, ".pnpm-global", "bin"),
		filepath.Join(home, ".npm-global", "bin"),
		filepath.Join(home, ".volta", "bin"),
		"/usr/bin",
		"/bin",
		"/usr/sbin",
		"/sbin",
	}
}

// buildFallback lists nvm node versions first, then the existing common
// directories, then the system PATH without duplicates
func buildFallback(home, systemPath string) string {
	var paths []string

	nvmRoot := filepath.Join(home, ".nvm", "versions", "node")
	if matches, err := doublestar.Glob(os.DirFS(nvmRoot), "*/bin"); err == nil {
		slices.Reverse(matches)
		for _, m := range matches {
			dir := filepath.Join(nvmRoot, filepath.FromSlash(m))
			if isDir(dir) {
				paths = append(paths, dir)
			}
		}
	}

	for _, dir := range commonDirs(home) {
		if isDir(dir) && !slices.Contains(paths, dir) {
			paths = append(paths, dir)
		}
	}

	for _, dir := range filepath.SplitList(systemPath) {
		if dir != "" && !slices.Contains(paths, dir) {
			paths = append(paths, dir)
		}
	}

	return strings.Join(paths, string(os.PathListSeparator))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
