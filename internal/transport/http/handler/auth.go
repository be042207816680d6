package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/model"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type RegisterRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Email       string            `json:"email" binding:"required,email,max=254"`
	Password    string            `json:"password" binding:"required,min=6,max=72"`
	Title       string            `json:"title" binding:"max=120"`
	Bio         string            `json:"bio" binding:"max=2000"`
	Skills      []string          `json:"skills" binding:"max=50,dive,max=60"`
	SocialLinks map[string]string `json:"social_links" binding:"max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        *model.User `json:"user"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Title:       req.Title,
		Bio:         req.Bio,
		Skills:      req.Skills,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		writeError(c, err, "register failed")
		return
	}

	response.Created(c, newTokenResponse(result))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err, "login failed")
		return
	}

	response.OK(c, newTokenResponse(result))
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) || errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
			return
		}
		writeError(c, err, "fetch current user failed")
		return
	}

	response.OK(c, user)
}

func newTokenResponse(result *app.AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		ExpiresAt:   result.ExpiresAt,
		User:        result.User,
	}
}
