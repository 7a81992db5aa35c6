package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresilva/courseapi/internal/entities"
)

// Keys under which the middleware stores the caller's identity in the
// gin context.
const (
	ContextUserID = "userID"
	ContextRole   = "userRole"
)

// Middleware validates the Bearer token and stores the caller's id and
// role in the request context. Requests without a valid token are
// rejected with 401.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		identity, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextRole, identity.Role)
		c.Next()
	}
}

// RequireAction rejects with 403 unless the caller's role permits the
// action. Must run after Middleware.
func RequireAction(action Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		userRole, ok := role.(entities.UserRole)
		if !ok || !CanPerform(userRole, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) string {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(string)
	return userID
}

// Role returns the authenticated user's role from the gin context.
func Role(c *gin.Context) entities.UserRole {
	role, _ := c.Get(ContextRole)
	userRole, _ := role.(entities.UserRole)
	return userRole
}
