package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/model"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

type TaskHandler struct {
	taskService *app.TaskService
}

type TaskRequest struct {
	Title          string     `json:"title" binding:"required,max=200"`
	Description    *string    `json:"description" binding:"omitempty,max=5000"`
	Status         string     `json:"status" binding:"omitempty,oneof=todo in-progress review completed"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,gte=0"`
}

type taskListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=todo in-progress review completed"`
}

func NewTaskHandler(taskService *app.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (r TaskRequest) fields() model.TaskFields {
	return model.TaskFields{
		Title:          r.Title,
		Description:    r.Description,
		Status:         r.Status,
		Priority:       r.Priority,
		DueDate:        r.DueDate,
		EstimatedHours: r.EstimatedHours,
	}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.fields())
	if err != nil {
		writeError(c, err, "create task failed")
		return
	}
	response.Created(c, task)
}

func (h *TaskHandler) List(c *gin.Context) {
	var q taskListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), middleware.UserID(c), c.Param("id"), q.Status)
	if err != nil {
		writeError(c, err, "list tasks failed")
		return
	}
	response.OK(c, tasks)
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.fields())
	if err != nil {
		writeError(c, err, "update task failed")
		return
	}
	response.OK(c, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.taskService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err, "delete task failed")
		return
	}
	response.OK(c, gin.H{"message": "task deleted successfully"})
}
