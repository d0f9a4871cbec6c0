package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"vintervu/internal/dto"
	"vintervu/internal/middleware"
	"vintervu/internal/service"
)

type DashboardController struct {
	dashboardSvc service.DashboardService
}

func NewDashboardController(dashboardSvc service.DashboardService) *DashboardController {
	return &DashboardController{dashboardSvc: dashboardSvc}
}

func (ctrl *DashboardController) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.GET("", ctrl.SummaryHandler)
	dashboard.GET("/history", ctrl.HistoryHandler)
}

// SummaryHandler godoc
// @Summary Get performance summary
// @Description Headline numbers and the percentage trend across all stored interviews
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (ctrl *DashboardController) SummaryHandler(c *gin.Context) {
	email := middleware.Email(c)
	summary, err := ctrl.dashboardSvc.Summary(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to build dashboard summary")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load dashboard", Details: []string{err.Error()}})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HistoryHandler godoc
// @Summary Get interview history
// @Description All stored interview results for the user, newest first, with per-question feedback
// @Tags dashboard
// @Produce json
// @Success 200 {array} dto.FeedbackRecordDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/history [get]
func (ctrl *DashboardController) HistoryHandler(c *gin.Context) {
	email := middleware.Email(c)
	records, err := ctrl.dashboardSvc.History(email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to load interview history")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load history", Details: []string{err.Error()}})
		return
	}
	c.JSON(http.StatusOK, records)
}
