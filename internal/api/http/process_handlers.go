package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zebras-launcher/backend/internal/shared/types"
	"github.com/zebras-launcher/backend/internal/shared/utils"
)

// StartProject starts a project's dev server
func (h *Handlers) StartProject(c *gin.Context) {
	var req types.StartProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateProjectPath(req.ProjectPath); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.processes.Start(req.ProjectID, req.ProjectName, req.ProjectPath)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"process": record,
	})
}

// StartAll starts every startable project in the request
func (h *Handlers) StartAll(c *gin.Context) {
	var req types.StartAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	started := h.processes.StartAll(req.Projects)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processes": started,
	})
}

// StopProcess kills a supervised process tree
func (h *Handlers) StopProcess(c *gin.Context) {
	processID, ok := idParam(c, "id", "process_id")
	if !ok {
		return
	}
	if err := h.processes.Stop(processID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"process_id": processID,
	})
}

// StopAllProcesses stops every supervised process
func (h *Handlers) StopAllProcesses(c *gin.Context) {
	if err := h.processes.StopAll(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListProcesses lists running processes
func (h *Handlers) ListProcesses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"processes": h.processes.List(),
	})
}

// GetProcess returns one process record
func (h *Handlers) GetProcess(c *gin.Context) {
	record, ok := h.processes.Get(c.Param("id"))
	if !ok {
		h.respondError(c, types.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"process": record,
		"running": true,
	})
}

// RunTask runs a one-shot task and waits for it to exit
func (h *Handlers) RunTask(c *gin.Context) {
	var req types.RunTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateProjectPath(req.ProjectPath); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.processes.RunTask(req.ProjectID, req.ProjectName, req.ProjectPath, req.Task); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    req.Task,
	})
}
