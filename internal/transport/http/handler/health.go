package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mongoStatus := h.checkMongo(ctx)
	redisStatus := h.checkRedis(ctx)
	rmqStatus := h.checkRabbitMQ()

	allOK := mongoStatus.OK && redisStatus.OK && rmqStatus.OK
	statusCode := http.StatusOK
	status := "healthy"
	if !allOK {
		statusCode = http.StatusServiceUnavailable
		status = "degraded"
	}

	c.JSON(statusCode, gin.H{
		"status":     status,
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": gin.H{
			"mongo":    mongoStatus,
			"redis":    redisStatus,
			"rabbitmq": rmqStatus,
		},
	})
}

func disabled() dependencyStatus {
	return dependencyStatus{OK: true, State: "disabled"}
}

func up() dependencyStatus {
	return dependencyStatus{OK: true, State: "up"}
}

func down(err error) dependencyStatus {
	return dependencyStatus{OK: false, State: "down", Message: err.Error()}
}

func (h *HealthHandler) checkMongo(ctx context.Context) dependencyStatus {
	if h.app.Mongo == nil {
		return disabled()
	}
	if err := h.app.Mongo.Ping(ctx, nil); err != nil {
		return down(err)
	}
	return up()
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if h.app.Redis == nil {
		return disabled()
	}
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return down(err)
	}
	return up()
}

func (h *HealthHandler) checkRabbitMQ() dependencyStatus {
	if h.app.MQConn == nil {
		return disabled()
	}
	if h.app.MQConn.IsClosed() {
		return dependencyStatus{OK: false, State: "down", Message: "connection closed"}
	}
	return up()
}
