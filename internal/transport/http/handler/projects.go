package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/model"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

type ProjectHandler struct {
	projectService *app.ProjectService
	maxFileSize    int64
}

type ProjectRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Description  string     `json:"description" binding:"max=5000"`
	Technologies []string   `json:"technologies" binding:"max=50,dive,max=60"`
	Status       string     `json:"status" binding:"omitempty,oneof=planning in-progress completed on-hold"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	ProjectType  string     `json:"project_type" binding:"omitempty,oneof=software design business other"`
	Priority     string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Tags         []string   `json:"tags" binding:"max=50,dive,max=60"`
}

type projectListQuery struct {
	pageQuery
	UserID      string `form:"user_id"`
	Status      string `form:"status" binding:"omitempty,oneof=planning in-progress completed on-hold"`
	ProjectType string `form:"project_type" binding:"omitempty,oneof=software design business other"`
}

func NewProjectHandler(projectService *app.ProjectService, maxFileSize int64) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, maxFileSize: maxFileSize}
}

func (r ProjectRequest) fields() model.ProjectFields {
	return model.ProjectFields{
		Title:        r.Title,
		Description:  r.Description,
		Technologies: r.Technologies,
		Status:       r.Status,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		ProjectType:  r.ProjectType,
		Priority:     r.Priority,
		Tags:         r.Tags,
	}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.UserID(c), req.fields())
	if err != nil {
		writeError(c, err, "create project failed")
		return
	}
	response.Created(c, project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	var q projectListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), middleware.UserID(c), app.ProjectQuery{
		UserID:      q.UserID,
		Status:      q.Status,
		ProjectType: q.ProjectType,
		Skip:        q.Skip,
		Limit:       q.Limit,
	})
	if err != nil {
		writeError(c, err, "list projects failed")
		return
	}
	response.OK(c, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err, "fetch project failed")
		return
	}
	response.OK(c, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.fields())
	if err != nil {
		writeError(c, err, "update project failed")
		return
	}
	response.OK(c, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err, "delete project failed")
		return
	}
	response.OK(c, gin.H{"message": "project deleted successfully"})
}
