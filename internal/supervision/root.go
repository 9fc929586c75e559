// Package supervision owns the process-wide supervision state: the dev
// server supervisor, the terminal sessions and the event hub they publish
// to. Shutdown stops every child before the process exits.
package supervision

import (
	"context"
	"fmt"

	"github.com/zebras-launcher/backend/internal/domain/events"
	"github.com/zebras-launcher/backend/internal/domain/process"
	"github.com/zebras-launcher/backend/internal/domain/terminal"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/platform/killer"
	"github.com/zebras-launcher/backend/internal/platform/spawn"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config configures the root
type Config struct {
	MaxSessions int
	Metrics     *monitoring.Metrics
}

// Root holds the shared supervisors
type Root struct {
	Processes *process.Supervisor
	Terminals *terminal.Manager
	Hub       *events.Hub

	logger *zap.Logger
}

// New wires a root from its collaborators
func New(cfg Config, factory spawn.Factory, k killer.Killer, logger *zap.Logger) *Root {
	if logger == nil {
		logger = zap.NewNop()
	}

	hub := events.NewHub(logger.Named("events"))
	processes := process.NewSupervisor(factory, k, hub, logger.Named("supervisor"))
	terminals := terminal.NewManager(factory, k, hub, logger.Named("terminal")).
		WithMaxSessions(cfg.MaxSessions)

	if cfg.Metrics != nil {
		processes.WithMetrics(cfg.Metrics)
		terminals.WithMetrics(cfg.Metrics)
	}

	return &Root{
		Processes: processes,
		Terminals: terminals,
		Hub:       hub,
		logger:    logger,
	}
}

// Shutdown stops all processes and terminal sessions concurrently and blocks
// until both sweeps finish. An expired context is logged, never obeyed: no
// child may outlive the launcher.
func (r *Root) Shutdown(ctx context.Context) error {
	r.logger.Info("Stopping all supervised processes")

	var g errgroup.Group
	g.Go(func() error {
		if err := r.Processes.StopAll(); err != nil {
			return fmt.Errorf("stop processes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		r.Terminals.StopAll()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		r.logger.Warn("Shutdown deadline passed, still stopping children", zap.Error(ctx.Err()))
		err = <-done
	}

	r.Hub.Close()

	if err != nil {
		r.logger.Warn("Shutdown finished with errors", zap.Error(err))
		return err
	}
	r.logger.Info("All supervised processes stopped")
	return nil
}
