package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zebras-launcher/backend/internal/domain/port"
	"github.com/zebras-launcher/backend/internal/shared/types"
)

// PortAvailable reports whether a loopback port can be bound right now
func (h *Handlers) PortAvailable(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("port"))
	if err != nil || n < 1 || n > port.MaxPort {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "port must be between 1 and 65535"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"port":      n,
		"available": h.probe.Available(n),
	})
}

// ResolvePorts resolves port conflicts for a workspace's projects against
// every other known workspace and writes the reassigned ports
func (h *Handlers) ResolvePorts(c *gin.Context) {
	var req types.ResolvePortsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	workspaceID, ok := idParam(c, "id", "workspace_id")
	if !ok {
		return
	}
	start, end := h.portRange(workspaceID, req)
	if err := port.ValidateRange(start, end); err != nil {
		h.respondError(c, err)
		return
	}

	projects, changes, err := h.ports.Resolve(workspaceID, req.Projects, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if changes == nil {
		changes = []types.PortChange{}
	}
	c.JSON(http.StatusOK, types.ResolvePortsResponse{
		Projects: projects,
		Changes:  changes,
	})
}

// portRange picks the request's range, else the saved workspace settings,
// else the configured fallback
func (h *Handlers) portRange(workspaceID string, req types.ResolvePortsRequest) (int, int) {
	if req.PortRangeStart != 0 || req.PortRangeEnd != 0 {
		return req.PortRangeStart, req.PortRangeEnd
	}

	if h.workspaces != nil {
		ws, err := h.workspaces.Get(workspaceID)
		if err == nil && ws.Settings.PortRangeStart != 0 && ws.Settings.PortRangeEnd != 0 {
			return ws.Settings.PortRangeStart, ws.Settings.PortRangeEnd
		}
		if err != nil {
			h.logger.Debug("using default port range",
				zap.String("workspace_id", workspaceID),
				zap.Error(err),
			)
		}
	}
	return h.rangeStart, h.rangeEnd
}
