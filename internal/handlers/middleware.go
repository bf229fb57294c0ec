package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/siwes-platform/logbook-service/internal/auth"
	"github.com/siwes-platform/logbook-service/internal/services"
)

const contextUserKey = "current_user"

// AuthMiddleware resolves the bearer token to a full user record and stores
// it in the request context. Services never read ambient identity; handlers
// pull the user out and pass it down explicitly.
func AuthMiddleware(secret string, accounts services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
			})
			return
		}

		claims, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.TokenType != auth.TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		user, err := accounts.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
			})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}
