package types

import "time"

// ConfigVersion identifies the project configuration layout
type ConfigVersion string

const (
	ConfigV2 ConfigVersion = "v2"
	ConfigV3 ConfigVersion = "v3"
)

// Project is one discoverable unit with a start command and a port
type Project struct {
	ID          string            `json:"id"`
	Path        string            `json:"path"`
	Version     ConfigVersion     `json:"version"`
	Platform    string            `json:"platform"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Domain      *string           `json:"domain,omitempty"`
	Port        int               `json:"port"`
	Framework   *string           `json:"framework,omitempty"`
	IsValid     bool              `json:"is_valid"`
	LastScanned time.Time         `json:"last_scanned"`
	Error       *string           `json:"error,omitempty"`
	Debug       map[string]string `json:"debug,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
}

// Startable reports whether the project takes part in "start all":
// it must be valid and not explicitly disabled.
func (p Project) Startable() bool {
	return p.IsValid && (p.Enabled == nil || *p.Enabled)
}

// PortChange records one reassignment made by conflict resolution
type PortChange struct {
	ProjectName string `json:"project_name"`
	OldPort     int    `json:"old_port"`
	NewPort     int    `json:"new_port"`
}

// PortStrategy selects how a workspace assigns ports
type PortStrategy string

const (
	PortSequential PortStrategy = "sequential"
	PortFixed      PortStrategy = "fixed"
)

// WorkspaceSettings holds per-workspace launch policy
type WorkspaceSettings struct {
	AutoStartAll   bool         `json:"auto_start_all"`
	PortStrategy   PortStrategy `json:"port_strategy"`
	PortRangeStart int          `json:"port_range_start"`
	PortRangeEnd   int          `json:"port_range_end"`
}

// DefaultWorkspaceSettings returns the settings for a new workspace
func DefaultWorkspaceSettings() WorkspaceSettings {
	return WorkspaceSettings{
		AutoStartAll:   false,
		PortStrategy:   PortSequential,
		PortRangeStart: 8000,
		PortRangeEnd:   9000,
	}
}

// Workspace is a named collection of folders scanned for projects
type Workspace struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	RootPath     string            `json:"root_path"`
	Folders      []string          `json:"folders"`
	CreatedAt    time.Time         `json:"created_at"`
	LastModified time.Time         `json:"last_modified"`
	Projects     []Project         `json:"projects"`
	Settings     WorkspaceSettings `json:"settings"`
}

// WorkspaceRef is an entry in the workspace index
type WorkspaceRef struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ConfigPath string  `json:"config_path"`
	LastOpened *string `json:"last_opened,omitempty"`
}
