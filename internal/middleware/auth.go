package middleware

import (
	"net/http"
	"strings"

	"mediabridge/internal/auth"
	"mediabridge/internal/logger"
	"mediabridge/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated subject.
const UserIDKey = string(contextkeys.UserIDContextKey)

// AuthMiddleware verifies the Bearer token and stores the subject in
// the context. Requests without a valid identity terminate here with
// no further side effects.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// GetUserID extracts the authenticated subject from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}
	return id
}
