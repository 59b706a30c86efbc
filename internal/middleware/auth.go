package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/session"
)

const SessionKey = "admin_session"

const unauthorizedMessage = "Unauthorized: You must be logged in."

// RequireAdmin rejects requests without a live admin session before any
// handler runs.
func RequireAdmin(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.FromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Message: unauthorizedMessage,
				Error:   "unauthorized",
			})
			return
		}

		c.Set(SessionKey, s)
		c.Next()
	}
}
