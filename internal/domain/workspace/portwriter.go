package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

const (
	v2OverrideFile = "zebra.local.json"
	v3OverrideFile = "zebras.config.local.ts"

	v3Skeleton = "export default {\n};\n"
	v3Anchor   = "export default {"
)

var v3PortField = regexp.MustCompile(`port:\s*['"]?\d+['"]?`)

// PortWriter writes ports into project override files
type PortWriter struct{}

// WritePort persists port into project's local override file
func (PortWriter) WritePort(project types.Project, port int) error {
	var err error
	switch project.Version {
	case types.ConfigV2:
		err = writeV2Port(project.Path, port)
	case types.ConfigV3:
		err = writeV3Port(project.Path, port)
	default:
		err = fmt.Errorf("unknown config version %q", project.Version)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrConfigWriteFailure, project.Name, err)
	}
	return nil
}

// writeV2Port merges {"port": n} into zebra.local.json, keeping other keys
func writeV2Port(projectPath string, port int) error {
	path := filepath.Join(projectPath, v2OverrideFile)

	config := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := sonic.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parse %s: %w", v2OverrideFile, err)
		}
		if config == nil {
			config = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	config["port"] = port

	out, err := sonic.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, out, 0o644)
}

// writeV3Port rewrites the first port field of zebras.config.local.ts, or
// inserts one after the default export
func writeV3Port(projectPath string, port int) error {
	path := filepath.Join(projectPath, v3OverrideFile)

	content := v3Skeleton
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		content = string(data)
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	return writeFileAtomic(path, []byte(setV3Port(content, port)), 0o644)
}

func setV3Port(content string, port int) string {
	field := fmt.Sprintf("port: '%d'", port)
	if loc := v3PortField.FindStringIndex(content); loc != nil {
		return content[:loc[0]] + field + content[loc[1]:]
	}
	return strings.Replace(content, v3Anchor, v3Anchor+"\n    "+field+",", 1)
}
