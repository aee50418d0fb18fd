// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/user"
	"github.com/your-org/backoffice-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// AuthMiddleware creates JWT authentication middleware. The user record is
// loaded fresh on every request so deactivation and grant changes take effect
// immediately, not at token expiry.
func AuthMiddleware(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		var currentUser user.User
		if err := db.First(&currentUser, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unknown user",
			})
			c.Abort()
			return
		}
		if !currentUser.IsActive {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is deactivated",
			})
			c.Abort()
			return
		}

		// Store user information in context
		c.Set("user_id", currentUser.ID)
		c.Set("user_email", currentUser.Email)
		c.Set("user_role", currentUser.Role)
		c.Set("current_user", &currentUser)

		c.Next()
	}
}

// AdminMiddleware ensures the user has the admin role
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, exists := GetUserFromContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !currentUser.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePermission gates a route group on one permission from the user's
// effective set (role defaults plus extra grants).
func RequirePermission(permission user.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser, exists := GetUserFromContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !currentUser.HasPermission(permission) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserFromContext extracts the authenticated user from gin context
func GetUserFromContext(c *gin.Context) (*user.User, bool) {
	value, exists := c.Get("current_user")
	if !exists {
		return nil, false
	}
	return value.(*user.User), true
}
