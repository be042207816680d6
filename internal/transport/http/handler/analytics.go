package handler

import (
	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

type AnalyticsHandler struct {
	analyticsService *app.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *app.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.analyticsService.Dashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err, "compute dashboard failed")
		return
	}
	response.OK(c, stats)
}
