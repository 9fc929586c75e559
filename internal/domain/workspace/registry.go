package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

// index is the on-disk shape of workspaces.json
type index struct {
	Workspaces []types.WorkspaceRef `json:"workspaces"`
}

// Registry is the index of known workspaces
type Registry struct {
	mu    sync.Mutex
	path  string
	store *Store
	now   func() time.Time
}

// NewRegistry creates a registry in the config directory
func NewRegistry(configDir string, store *Store) *Registry {
	return &Registry{
		path:  filepath.Join(configDir, indexFile),
		store: store,
		now:   time.Now,
	}
}

// List returns every known workspace. A missing index is an empty list.
func (r *Registry) List() ([]types.WorkspaceRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := r.load()
	if err != nil {
		return nil, err
	}
	return idx.Workspaces, nil
}

// Add registers a workspace; registering an id twice is a no-op
func (r *Registry) Add(ws types.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := r.load()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(idx.Workspaces, func(ref types.WorkspaceRef) bool { return ref.ID == ws.ID }) {
		return nil
	}

	opened := r.now().UTC().Format(time.RFC3339)
	idx.Workspaces = append(idx.Workspaces, types.WorkspaceRef{
		ID:         ws.ID,
		Name:       ws.Name,
		ConfigPath: r.store.Path(ws.ID),
		LastOpened: &opened,
	})
	return r.save(idx)
}

// Remove drops a workspace from the index
func (r *Registry) Remove(workspaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := r.load()
	if err != nil {
		return err
	}
	idx.Workspaces = slices.DeleteFunc(idx.Workspaces, func(ref types.WorkspaceRef) bool {
		return ref.ID == workspaceID
	})
	return r.save(idx)
}

// Touch records that a workspace was opened now
func (r *Registry) Touch(workspaceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := r.load()
	if err != nil {
		return err
	}
	for i := range idx.Workspaces {
		if idx.Workspaces[i].ID == workspaceID {
			opened := r.now().UTC().Format(time.RFC3339)
			idx.Workspaces[i].LastOpened = &opened
			return r.save(idx)
		}
	}
	return fmt.Errorf("%w: workspace %s", types.ErrNotFound, workspaceID)
}

// Lookup finds one workspace ref by id
func (r *Registry) Lookup(workspaceID string) (types.WorkspaceRef, error) {
	refs, err := r.List()
	if err != nil {
		return types.WorkspaceRef{}, err
	}
	for _, ref := range refs {
		if ref.ID == workspaceID {
			return ref, nil
		}
	}
	return types.WorkspaceRef{}, fmt.Errorf("%w: workspace %s", types.ErrNotFound, workspaceID)
}

func (r *Registry) load() (index, error) {
	var idx index

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return idx, nil
		}
		return idx, fmt.Errorf("read workspace index: %w", err)
	}
	if err := sonic.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("parse workspace index: %w", err)
	}
	return idx, nil
}

func (r *Registry) save(idx index) error {
	if idx.Workspaces == nil {
		idx.Workspaces = []types.WorkspaceRef{}
	}
	data, err := sonic.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode workspace index: %w", err)
	}
	if err := writeFileAtomic(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write workspace index: %w", err)
	}
	return nil
}
