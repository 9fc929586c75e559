//go:build windows

package spawn

import (
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// Package managers ship as batch shims on Windows
var batchShims = map[string]bool{
	"npm":  true,
	"npx":  true,
	"pnpm": true,
	"yarn": true,
}

func shell() (string, string) {
	return "cmd", "/C"
}

// Windows spells it Path; the lookup is case insensitive
func isPathVar(kv string) bool {
	name, _, ok := strings.Cut(kv, "=")
	return ok && strings.EqualFold(name, "PATH")
}

func programName(program string) string {
	if filepath.Ext(program) == "" && batchShims[program] {
		return program + ".cmd"
	}
	return program
}

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
