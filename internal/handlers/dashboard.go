package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/sambasci/marketing-tools-backend/internal/tools"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Dashboard lists the registered tool cards.
func (dh *DashboardHandler) Dashboard(c *gin.Context) {
	RespondOK(c, gin.H{"tools": tools.Cards()})
}

// View resolves the "app" navigation parameter. Unknown or absent values
// land on the dashboard rather than erroring.
func (dh *DashboardHandler) View(c *gin.Context) {
	target := tools.Resolve(c.Query("app"))
	if target.Dashboard {
		RespondOK(c, gin.H{"view": "dashboard", "tools": tools.Cards()})
		return
	}
	RespondOK(c, gin.H{"view": string(target.Tool.ID), "tool": target.Tool})
}
