package handler

import (
	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/model"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

type UserHandler struct {
	userService *app.UserService
}

type UserRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Email       string            `json:"email" binding:"required,email,max=254"`
	Title       string            `json:"title" binding:"max=120"`
	Bio         string            `json:"bio" binding:"max=2000"`
	Skills      []string          `json:"skills" binding:"max=50,dive,max=60"`
	SocialLinks map[string]string `json:"social_links" binding:"max=20"`
}

type pageQuery struct {
	Skip  int64 `form:"skip" binding:"omitempty,min=0"`
	Limit int64 `form:"limit" binding:"omitempty,min=1,max=100"`
}

func NewUserHandler(userService *app.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (r UserRequest) profile() model.UserProfile {
	return model.UserProfile{
		Name:        r.Name,
		Email:       r.Email,
		Title:       r.Title,
		Bio:         r.Bio,
		Skills:      r.Skills,
		SocialLinks: r.SocialLinks,
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), req.profile())
	if err != nil {
		writeError(c, err, "create user failed")
		return
	}
	response.Created(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	users, err := h.userService.List(c.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		writeError(c, err, "list users failed")
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "fetch user failed")
		return
	}
	response.OK(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.profile())
	if err != nil {
		writeError(c, err, "update user failed")
		return
	}
	response.OK(c, user)
}
