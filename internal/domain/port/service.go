package port

import (
	"github.com/zebras-launcher/backend/internal/shared/types"
)

// Service runs the full resolution flow for one workspace: collect the
// ports of other workspaces, resolve, then persist the changes
type Service struct {
	allocator *Allocator
	collector *Collector
	writer    ConfigWriter
}

// NewService creates a Service
func NewService(allocator *Allocator, collector *Collector, writer ConfigWriter) *Service {
	return &Service{allocator: allocator, collector: collector, writer: writer}
}

// Resolve resolves conflicts for workspaceID's projects and writes the new
// ports. Nothing is written when resolution fails.
func (s *Service) Resolve(workspaceID string, projects []types.Project, rangeStart, rangeEnd int) ([]types.Project, []types.PortChange, error) {
	used := s.collector.Collect(workspaceID)

	updated, changes, err := s.allocator.ResolveConflicts(projects, used, rangeStart, rangeEnd)
	if err != nil {
		return updated, changes, err
	}

	if len(changes) > 0 {
		if err := ApplyPortChanges(changes, updated, s.writer); err != nil {
			return updated, changes, err
		}
	}
	return updated, changes, nil
}
