package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

// writeError maps service errors onto the response envelope. Anything not
// recognised is logged and reported as a 500 with fallback as message.
func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredential):
		c.Header("WWW-Authenticate", "Bearer")
		response.Error(c, http.StatusUnauthorized, response.CodeInvalidCredentials, err.Error())
	case errors.Is(err, app.ErrForbidden):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
	case errors.Is(err, app.ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, response.CodeProjectNotFound, err.Error())
	case errors.Is(err, app.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, response.CodeTaskNotFound, err.Error())
	case errors.Is(err, app.ErrEmailExists):
		response.Error(c, http.StatusConflict, response.CodeEmailExists, err.Error())
	case errors.Is(err, app.ErrPayloadTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodePayloadTooLarge, err.Error())
	default:
		log.Printf("[%s] %s %s: %v", c.GetString(middleware.ContextRequestIDKey), c.Request.Method, c.FullPath(), err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
