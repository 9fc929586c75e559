package http

import (
	"github.com/gin-gonic/gin"
)

// Register mounts every command route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Dev-server supervision
	r.GET("/processes", h.ListProcesses)
	r.POST("/processes", h.StartProject)
	r.POST("/processes/start-all", h.StartAll)
	r.POST("/processes/stop-all", h.StopAllProcesses)
	r.POST("/processes/tasks", h.RunTask)
	r.GET("/processes/:id", h.GetProcess)
	r.DELETE("/processes/:id", h.StopProcess)

	// Terminal sessions
	r.GET("/terminals", h.ListTerminals)
	r.POST("/terminals", h.CreateTerminal)
	r.GET("/terminals/:id", h.GetTerminal)
	r.POST("/terminals/:id/run", h.RunTerminalCommand)
	r.POST("/terminals/:id/kill", h.KillTerminal)
	r.DELETE("/terminals/:id", h.CloseTerminal)

	// Ports
	r.GET("/ports/:port/available", h.PortAvailable)
	r.POST("/workspaces/:id/ports/resolve", h.ResolvePorts)

	// Workspaces
	r.GET("/workspaces", h.ListWorkspaces)
	r.GET("/workspaces/:id", h.GetWorkspace)
	r.PUT("/workspaces/:id", h.SaveWorkspace)
	r.DELETE("/workspaces/:id", h.DeleteWorkspace)

	r.GET("/metrics/json", h.MetricsSummary)
}
