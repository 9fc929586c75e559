package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zebras-launcher/backend/internal/shared/types"
)

// ListWorkspaces lists the workspace index
func (h *Handlers) ListWorkspaces(c *gin.Context) {
	refs, err := h.registry.List()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": refs})
}

// GetWorkspace loads one workspace and marks it as opened
func (h *Handlers) GetWorkspace(c *gin.Context) {
	workspaceID, ok := idParam(c, "id", "workspace_id")
	if !ok {
		return
	}
	ws, err := h.workspaces.Get(workspaceID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.registry.Touch(workspaceID); err != nil {
		h.logger.Warn("failed to update last opened",
			zap.String("workspace_id", workspaceID),
			zap.Error(err),
		)
	}
	c.JSON(http.StatusOK, gin.H{"workspace": ws})
}

// SaveWorkspace writes a workspace file and indexes it
func (h *Handlers) SaveWorkspace(c *gin.Context) {
	var ws types.Workspace
	if err := c.ShouldBindJSON(&ws); err != nil {
		badRequest(c, err)
		return
	}
	workspaceID, ok := idParam(c, "id", "workspace_id")
	if !ok {
		return
	}
	ws.ID = workspaceID
	if ws.Settings.PortStrategy == "" {
		ws.Settings = types.DefaultWorkspaceSettings()
	}

	if err := h.workspaces.Save(ws); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.registry.Add(ws); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workspace": ws})
}

// DeleteWorkspace removes a workspace file and its index entry
func (h *Handlers) DeleteWorkspace(c *gin.Context) {
	workspaceID, ok := idParam(c, "id", "workspace_id")
	if !ok {
		return
	}
	if err := h.registry.Remove(workspaceID); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.workspaces.Delete(workspaceID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workspace_id": workspaceID})
}
