package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-api/internal/pkg/jwtutil"
	"portfolio-api/internal/transport/http/response"
)

const ContextUserIDKey = "user_id"

const unauthenticatedMessage = "could not validate credentials"

// AuthJWT rejects requests without a valid bearer token. Every failure gets
// the same 401 body; the reason is only logged.
func AuthJWT(tokens *jwtutil.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))

		const prefix = "Bearer "
		if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
			reject(c, "missing bearer token")
			return
		}

		token := strings.TrimSpace(authHeader[len(prefix):])
		result := tokens.Verify(token)
		if !result.Valid() {
			reject(c, "token "+result.Status.String())
			return
		}

		c.Set(ContextUserIDKey, result.Subject)
		c.Next()
	}
}

func reject(c *gin.Context, reason string) {
	log.Printf("[auth] reject %s %s: %s", c.Request.Method, c.FullPath(), reason)
	c.Header("WWW-Authenticate", "Bearer")
	response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, unauthenticatedMessage)
	c.Abort()
}

// UserID returns the authenticated user id set by AuthJWT.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
