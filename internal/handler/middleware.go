package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/avdeyev/contacts-service/internal/dto"
	"github.com/avdeyev/contacts-service/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	contextUserKey = "user"
	timeFormat     = time.RFC3339
)

// AuthMiddleware validates the bearer token and resolves the account behind
// it. Requests with an expired or tampered token, or a subject that no
// longer exists, are all rejected as unauthenticated.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)

		c.Next()
	}
}
