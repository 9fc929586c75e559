//go:build !windows

package spawn

import (
	"strings"
	"syscall"
)

func shell() (string, string) {
	return "sh", "-c"
}

// Environment names are case sensitive here
func isPathVar(kv string) bool {
	name, _, ok := strings.Cut(kv, "=")
	return ok && name == "PATH"
}

func programName(program string) string {
	return program
}

// Children get their own process group so terminal signals aimed at the
// launcher do not reach them before the tree killer does
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
