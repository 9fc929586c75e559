package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits
const (
	MaxIDLength      = 128
	MaxCommandLength = 8 * 1024
	MaxPathLength    = 4096
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID checks an identifier used in URLs and file names
func ValidateID(id, field string) error {
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%s exceeds maximum length %d", field, MaxIDLength)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}

// ValidateCommand checks a terminal command line. Blank commands are left
// to the terminal manager, which owns that error.
func ValidateCommand(command string) error {
	if len(command) > MaxCommandLength {
		return fmt.Errorf("command exceeds maximum length %d", MaxCommandLength)
	}
	if !utf8.ValidString(command) {
		return fmt.Errorf("command is not valid UTF-8")
	}
	if strings.ContainsRune(command, 0) {
		return fmt.Errorf("command contains a NUL byte")
	}
	return nil
}

// ValidateProjectPath checks a project directory handed to a child process
func ValidateProjectPath(path string) error {
	if path == "" {
		return fmt.Errorf("project_path is required")
	}
	if len(path) > MaxPathLength {
		return fmt.Errorf("project_path exceeds maximum length %d", MaxPathLength)
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("project_path must be absolute")
	}
	return nil
}
