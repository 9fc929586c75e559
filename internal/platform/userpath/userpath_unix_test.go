//go:build !windows

package userpath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mkdirs(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(d, 0o755))
	}
}

func TestBuildFallback(t *testing.T) {
	home := t.TempDir()
	nvm := filepath.Join(home, ".nvm", "versions", "node")
	mkdirs(t,
		filepath.Join(nvm, "v18.0.0", "bin"),
		filepath.Join(nvm, "v20.1.0", "bin"),
		filepath.Join(home, ".volta", "bin"),
		filepath.Join(home, ".local", "share", "pnpm"),
	)

	got := strings.Split(buildFallback(home, "/custom/bin:"+filepath.Join(home, ".volta", "bin")), ":")

	require.GreaterOrEqual(t, len(got), 5)
	assert.Equal(t, filepath.Join(nvm, "v20.1.0", "bin"), got[0])
	assert.Equal(t, filepath.Join(nvm, "v18.0.0", "bin"), got[1])
	assert.Contains(t, got, filepath.Join(home, ".local", "share", "pnpm"))
	assert.Contains(t, got, "/custom/bin")
	assert.NotContains(t, got, filepath.Join(home, ".fnm", "current", "bin"))

	// system entries are appended once
	count := 0
	for _, p := range got {
		if p == filepath.Join(home, ".volta", "bin") {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, "/custom/bin", got[len(got)-1])
}

func TestBuildFallbackWithoutNvm(t *testing.T) {
	home := t.TempDir()
	got := buildFallback(home, "")
	assert.NotContains(t, got, ".nvm")
}

func TestParseShellOutput(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{"plain", "/usr/bin:/bin\n", "/usr/bin:/bin", false},
		{"banner", "Welcome!\n/opt/homebrew/bin:/usr/bin\n", "/opt/homebrew/bin:/usr/bin", false},
		{"empty", "\n", "", true},
		{"no slash", "nothing here\n", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseShellOutput(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolverUsesLoginShell(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "pnpm")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755))

	calls := 0
	r := New(zap.NewNop())
	r.loginShell = func() (string, error) {
		calls++
		return dir, nil
	}

	assert.Equal(t, dir, r.Path())
	assert.Equal(t, dir, r.Path())
	assert.Equal(t, 1, calls)

	got, ok := r.Resolve("pnpm")
	require.True(t, ok)
	assert.Equal(t, tool, got)

	_, ok = r.Resolve("yarn")
	assert.False(t, ok)
}

func TestResolverFallsBack(t *testing.T) {
	home := t.TempDir()
	mkdirs(t, filepath.Join(home, "bin"))

	r := New(zap.NewNop())
	r.home = home
	r.systemPath = "/usr/bin"
	r.loginShell = func() (string, error) { return "", errors.New("no shell") }

	path := r.Path()
	assert.True(t, strings.HasPrefix(path, filepath.Join(home, "bin")))
	assert.Contains(t, path, "/usr/bin")
}
