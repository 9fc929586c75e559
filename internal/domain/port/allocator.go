// Package port resolves dev-server port conflicts across workspaces.
//
// Resolution is a single ordered pass: earlier projects win a contested
// port and later ones move to the next free port up to the end of the
// range. A pass that runs out of ports keeps the assignments it already
// made; callers that need all-or-nothing must copy the input first.
package port

import (
	"fmt"

	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Allocator assigns ports to a batch of projects
type Allocator struct {
	probe   Prober
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewAllocator creates an allocator. A nil probe uses LoopbackProbe.
func NewAllocator(probe Prober, logger *zap.Logger) *Allocator {
	if probe == nil {
		probe = LoopbackProbe{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{probe: probe, logger: logger}
}

// WithMetrics adds metrics tracking to the allocator
func (a *Allocator) WithMetrics(metrics *monitoring.Metrics) *Allocator {
	a.metrics = metrics
	return a
}

// ValidateRange checks a port range
func ValidateRange(start, end int) error {
	if start < 1 || end > MaxPort || start > end {
		return fmt.Errorf("%w: %d-%d", types.ErrInvalidPortRange, start, end)
	}
	return nil
}

// ResolveConflicts walks projects in order and moves every project whose
// port is taken (by globalUsed, by an earlier project, or by a foreign
// listener) to the first free port at or above it, up to rangeEnd.
//
// projects is updated in place and returned. On ErrPortExhausted the
// projects before the failing one keep their new ports and the changes made
// so far are returned with the error. globalUsed is not modified.
func (a *Allocator) ResolveConflicts(projects []types.Project, globalUsed map[int]struct{}, rangeStart, rangeEnd int) ([]types.Project, []types.PortChange, error) {
	if err := ValidateRange(rangeStart, rangeEnd); err != nil {
		return projects, nil, err
	}

	consumed := make(map[int]struct{}, len(globalUsed)+len(projects))
	for p := range globalUsed {
		consumed[p] = struct{}{}
	}

	var changes []types.PortChange
	for i := range projects {
		project := &projects[i]
		requested := project.Port

		if requested >= 1 && requested <= MaxPort && a.free(requested, consumed) {
			consumed[requested] = struct{}{}
			continue
		}

		// Unset ports start from the bottom of the range
		from := requested
		if from < 1 {
			from = rangeStart
		}

		assigned, ok := a.scan(from, rangeEnd, consumed)
		if !ok {
			if a.metrics != nil {
				a.metrics.IncPortExhaustions()
				a.metrics.AddPortReassignments(len(changes))
			}
			a.logger.Warn("No free port for project",
				zap.String("project", project.Name),
				zap.Int("requested", requested),
				zap.Int("range_end", rangeEnd))
			return projects, changes, fmt.Errorf("%w: project %s (requested %d, range end %d)",
				types.ErrPortExhausted, project.Name, requested, rangeEnd)
		}

		changes = append(changes, types.PortChange{
			ProjectName: project.Name,
			OldPort:     requested,
			NewPort:     assigned,
		})
		project.Port = assigned
		consumed[assigned] = struct{}{}

		a.logger.Info("Port reassigned",
			zap.String("project", project.Name),
			zap.Int("old_port", requested),
			zap.Int("new_port", assigned))
	}

	if a.metrics != nil {
		a.metrics.AddPortReassignments(len(changes))
	}
	return projects, changes, nil
}

func (a *Allocator) free(port int, consumed map[int]struct{}) bool {
	if _, taken := consumed[port]; taken {
		return false
	}
	return a.probe.Available(port)
}

func (a *Allocator) scan(from, to int, consumed map[int]struct{}) (int, bool) {
	for p := from; p <= to; p++ {
		if a.free(p, consumed) {
			return p, true
		}
	}
	return 0, false
}
