package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/app"
	"portfolio-api/internal/transport/http/middleware"
	"portfolio-api/internal/transport/http/response"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file itself.
const multipartOverhead = 1 << 20

// Upload resolves the project before reading the body, so a missing or
// foreign project reports 404/403 whatever the request size.
func (h *ProjectHandler) Upload(c *gin.Context) {
	if _, err := h.projectService.Get(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, err, "upload file failed")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(c, app.ErrPayloadTooLarge, "")
			return
		}
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "multipart field \"file\" is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err, "read upload failed")
		return
	}
	defer file.Close()

	name, err := h.projectService.UploadFile(c.Request.Context(), middleware.UserID(c), c.Param("id"), app.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		writeError(c, err, "upload file failed")
		return
	}

	response.OK(c, gin.H{
		"filename": name,
		"message":  "file uploaded successfully",
	})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
