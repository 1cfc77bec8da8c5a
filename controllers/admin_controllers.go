package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/catering-app/services"
	"github.com/yeremiapane/catering-app/utils"
)

type AdminController struct {
	Stats *services.StatsService
}

func NewAdminController(stats *services.StatsService) *AdminController {
	return &AdminController{Stats: stats}
}

func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Stats.DashboardStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
