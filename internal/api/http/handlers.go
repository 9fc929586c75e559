package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zebras-launcher/backend/internal/domain/port"
	"github.com/zebras-launcher/backend/internal/domain/process"
	"github.com/zebras-launcher/backend/internal/domain/terminal"
	"github.com/zebras-launcher/backend/internal/domain/workspace"
	"github.com/zebras-launcher/backend/internal/infrastructure/monitoring"
	"github.com/zebras-launcher/backend/internal/shared/types"
	"github.com/zebras-launcher/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Deps groups the collaborators the handlers dispatch to
type Deps struct {
	Processes  *process.Supervisor
	Terminals  *terminal.Manager
	Ports      *port.Service
	Probe      port.Prober
	Workspaces *workspace.Store
	Registry   *workspace.Registry
	Metrics    *monitoring.Metrics
	Logger     *zap.Logger

	// Fallback range when neither the request nor the workspace sets one
	PortRangeStart int
	PortRangeEnd   int
}

// Handlers contains all HTTP handlers
type Handlers struct {
	processes  *process.Supervisor
	terminals  *terminal.Manager
	ports      *port.Service
	probe      port.Prober
	workspaces *workspace.Store
	registry   *workspace.Registry
	metrics    *monitoring.Metrics
	logger     *zap.Logger

	rangeStart int
	rangeEnd   int
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	probe := deps.Probe
	if probe == nil {
		probe = port.LoopbackProbe{}
	}
	return &Handlers{
		processes:  deps.Processes,
		terminals:  deps.Terminals,
		ports:      deps.Ports,
		probe:      probe,
		workspaces: deps.Workspaces,
		registry:   deps.Registry,
		metrics:    deps.Metrics,
		logger:     logger,
		rangeStart: deps.PortRangeStart,
		rangeEnd:   deps.PortRangeEnd,
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "zebras-launcher",
		"version": Version,
	})
}

// Health reports supervisor occupancy
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"processes": len(h.processes.List()),
	})
}

// respondError maps a domain error onto a status code and a short message
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := types.StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)

	body := gin.H{
		"success": false,
		"error":   types.Message(err),
		"detail":  err.Error(),
	}
	if code, ok := types.ExitCode(err); ok {
		body["exit_code"] = code
	}
	c.JSON(status, body)
}

// idParam reads and validates a path parameter, answering 400 when invalid
func idParam(c *gin.Context, name, field string) (string, bool) {
	value := c.Param(name)
	if err := utils.ValidateID(value, field); err != nil {
		badRequest(c, err)
		return "", false
	}
	return value, true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request: " + err.Error(),
	})
}
