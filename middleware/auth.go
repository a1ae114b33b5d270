package middleware

import (
	"net/http"
	"strings"

	"kree/models"

	"github.com/gin-gonic/gin"
)

// TokenResolver validates a session token and returns its account. The user
// service provides the production implementation.
type TokenResolver func(token string) (*models.User, error)

// JWTAuthMiddleware authenticates the request from a Bearer token and puts
// the account on the context under "userID", "role" and "user".
func JWTAuthMiddleware(resolve TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Insufficient authorization",
			})
			return
		}

		account, err := resolve(tokenString)
		if err != nil || account == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication error",
			})
			return
		}

		c.Set("userID", account.ID)
		c.Set("role", account.Role)
		c.Set("user", account)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Runs after
// JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Insufficient authorization",
			})
			return
		}
		role, ok := roleVal.(models.Role)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Insufficient authorization",
			})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "You do not have access to this resource",
		})
	}
}

// CurrentUser pulls the authenticated account off the context.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get("user")
	if !exists {
		return nil
	}
	account, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return account
}
