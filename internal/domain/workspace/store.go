package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

// Store reads and writes workspace files
type Store struct {
	dir string
}

// NewStore creates a store rooted at the config directory
func NewStore(configDir string) *Store {
	return &Store{dir: filepath.Join(configDir, workspacesDir)}
}

// Path returns the canonical file of a workspace
func (s *Store) Path(workspaceID string) string {
	return filepath.Join(s.dir, workspaceID+".json")
}

// Load reads a workspace file
func (s *Store) Load(path string) (types.Workspace, error) {
	var ws types.Workspace

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ws, fmt.Errorf("%w: workspace file %s", types.ErrNotFound, path)
		}
		return ws, fmt.Errorf("read workspace: %w", err)
	}
	if err := sonic.Unmarshal(data, &ws); err != nil {
		return ws, fmt.Errorf("parse workspace %s: %w", path, err)
	}
	return ws, nil
}

// Get loads a workspace by id from its canonical file
func (s *Store) Get(workspaceID string) (types.Workspace, error) {
	return s.Load(s.Path(workspaceID))
}

// Save writes a workspace to its canonical file
func (s *Store) Save(ws types.Workspace) error {
	if ws.ID == "" {
		return errors.New("workspace id is required")
	}
	data, err := sonic.MarshalIndent(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("encode workspace: %w", err)
	}
	if err := writeFileAtomic(s.Path(ws.ID), data, 0o644); err != nil {
		return fmt.Errorf("write workspace: %w", err)
	}
	return nil
}

// Delete removes a workspace file; a missing file is not an error
func (s *Store) Delete(workspaceID string) error {
	if err := os.Remove(s.Path(workspaceID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return nil
}

// LoadProjects returns the persisted projects of the workspace ref points to.
// The canonical file wins over the path recorded in the index.
func (s *Store) LoadProjects(ref types.WorkspaceRef) ([]types.Project, error) {
	path := s.Path(ref.ID)
	if _, err := os.Stat(path); err != nil && ref.ConfigPath != "" {
		path = ref.ConfigPath
	}
	ws, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	return ws.Projects, nil
}
