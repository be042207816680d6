package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/transport/http/response"
)

type DemoHandler struct {
	demoService *app.DemoService
}

func NewDemoHandler(demoService *app.DemoService) *DemoHandler {
	return &DemoHandler{demoService: demoService}
}

func (h *DemoHandler) CreateUsers(c *gin.Context) {
	created, err := h.demoService.SeedUsers(c.Request.Context())
	if err != nil {
		writeError(c, err, "create demo users failed")
		return
	}
	response.OK(c, gin.H{
		"message": fmt.Sprintf("Created %d demo users", len(created)),
		"count":   len(created),
	})
}
