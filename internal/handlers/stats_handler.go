package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/internal/services"
)

// StatsHandler serves the dashboard figures.
type StatsHandler struct {
	dashboardService services.DashboardServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(dashboardService services.DashboardServicer) *StatsHandler {
	return &StatsHandler{dashboardService: dashboardService}
}

// GetStats returns totals, top category, cap status and the expense trend
// @Summary     Dashboard statistics
// @Tags        stats
// @Produce     json
// @Success     200 {object} object{stats=stats.Summary}
// @Router      /stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": h.dashboardService.Stats()})
}
