package port

import (
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// WorkspaceRegistry enumerates known workspaces
type WorkspaceRegistry interface {
	List() ([]types.WorkspaceRef, error)
}

// ProjectStore loads the persisted projects of a workspace
type ProjectStore interface {
	LoadProjects(ref types.WorkspaceRef) ([]types.Project, error)
}

// Collector gathers the ports declared by other workspaces
type Collector struct {
	registry WorkspaceRegistry
	store    ProjectStore
	logger   *zap.Logger
}

// NewCollector creates a collector
func NewCollector(registry WorkspaceRegistry, store ProjectStore, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{registry: registry, store: store, logger: logger}
}

// Collect returns the ports of every valid project in every workspace
// except currentID, running or not. Workspaces that fail to load are
// logged and skipped; an unreadable registry yields an empty set.
func (c *Collector) Collect(currentID string) map[int]struct{} {
	used := make(map[int]struct{})

	refs, err := c.registry.List()
	if err != nil {
		c.logger.Warn("Failed to list workspaces", zap.Error(err))
		return used
	}

	for _, ref := range refs {
		if ref.ID == currentID {
			continue
		}
		projects, err := c.store.LoadProjects(ref)
		if err != nil {
			c.logger.Warn("Failed to load workspace",
				zap.String("workspace_id", ref.ID),
				zap.String("workspace", ref.Name),
				zap.Error(err))
			continue
		}
		for _, p := range projects {
			if p.IsValid {
				used[p.Port] = struct{}{}
			}
		}
	}

	c.logger.Debug("Collected ports from other workspaces",
		zap.String("workspace_id", currentID),
		zap.Int("ports", len(used)))
	return used
}
