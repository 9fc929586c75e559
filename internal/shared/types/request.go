package types

// StartProjectRequest starts one project's dev server
type StartProjectRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	ProjectName string `json:"project_name" binding:"required"`
	ProjectPath string `json:"project_path" binding:"required"`
}

// StartAllRequest starts every startable project of a workspace
type StartAllRequest struct {
	Projects []Project `json:"projects" binding:"required"`
}

// RunTaskRequest runs a one-shot maintenance task
type RunTaskRequest struct {
	ProjectID   string   `json:"project_id" binding:"required"`
	ProjectName string   `json:"project_name" binding:"required"`
	ProjectPath string   `json:"project_path" binding:"required"`
	Task        TaskKind `json:"task" binding:"required"`
}

// CreateSessionRequest opens a terminal session for a project
type CreateSessionRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
}

// RunCommandRequest runs a shell command in a terminal session
type RunCommandRequest struct {
	ProjectPath string `json:"project_path" binding:"required"`
	Command     string `json:"command"`
}

// ResolvePortsRequest resolves port conflicts for a workspace's projects
type ResolvePortsRequest struct {
	Projects       []Project `json:"projects" binding:"required"`
	PortRangeStart int       `json:"port_range_start"`
	PortRangeEnd   int       `json:"port_range_end"`
}

// ResolvePortsResponse carries the updated projects and the changes applied
type ResolvePortsResponse struct {
	Projects []Project    `json:"projects"`
	Changes  []PortChange `json:"changes"`
}
