package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zebras-launcher/backend/internal/shared/types"
	"github.com/zebras-launcher/backend/internal/shared/utils"
)

// CreateTerminal opens a terminal session for a project
func (h *Handlers) CreateTerminal(c *gin.Context) {
	var req types.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateID(req.ProjectID, "project_id"); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.terminals.CreateSession(req.ProjectID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"session": session,
	})
}

// ListTerminals lists a project's sessions
func (h *Handlers) ListTerminals(c *gin.Context) {
	projectID := c.Query("project_id")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "project_id is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": h.terminals.ListSessions(projectID),
	})
}

// GetTerminal returns one session
func (h *Handlers) GetTerminal(c *gin.Context) {
	session, ok := h.terminals.Get(c.Param("id"))
	if !ok {
		h.respondError(c, types.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// RunTerminalCommand starts a shell command in a session
func (h *Handlers) RunTerminalCommand(c *gin.Context) {
	var req types.RunCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateCommand(req.Command); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateProjectPath(req.ProjectPath); err != nil {
		badRequest(c, err)
		return
	}

	sessionID, ok := idParam(c, "id", "session_id")
	if !ok {
		return
	}
	if err := h.terminals.RunCommand(sessionID, req.ProjectPath, req.Command); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// KillTerminal kills the command running in a session
func (h *Handlers) KillTerminal(c *gin.Context) {
	sessionID, ok := idParam(c, "id", "session_id")
	if !ok {
		return
	}
	if err := h.terminals.KillSession(sessionID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}

// CloseTerminal closes a session, killing its command if any
func (h *Handlers) CloseTerminal(c *gin.Context) {
	sessionID, ok := idParam(c, "id", "session_id")
	if !ok {
		return
	}
	if err := h.terminals.CloseSession(sessionID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sessionID,
	})
}
