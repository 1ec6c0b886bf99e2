package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/palsuhanapp/hanapp-api/internal/config"
	"github.com/palsuhanapp/hanapp-api/internal/pkg/response"
)

// NewAuthMiddleware creates a Gin middleware for JWT authentication
func NewAuthMiddleware(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromHeader(c, repo, cfg)
		if !ok {
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID.Hex())
		c.Set("userEmail", user.Email)
		c.Next()
	}
}

// NewOptionalAuthMiddleware resolves the user when a valid token is present
// but lets anonymous requests through. Listing endpoints use it so owners
// can see their own unapproved items.
func NewOptionalAuthMiddleware(repo *Repository, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		userID, err := ValidateJWT(parts[1], cfg)
		if err != nil {
			c.Next()
			return
		}

		user, err := repo.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID.Hex())
		c.Set("userEmail", user.Email)
		c.Next()
	}
}

func userFromHeader(c *gin.Context, repo *Repository, cfg *config.Config) (*User, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "Authorization header required")
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, "Invalid authorization format")
		return nil, false
	}

	userID, err := ValidateJWT(parts[1], cfg)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return nil, false
	}

	user, err := repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		response.Unauthorized(c, "User not found")
		return nil, false
	}

	return user, true
}

// CurrentUser returns the authenticated user set by the middleware, if any
func CurrentUser(c *gin.Context) (*User, bool) {
	val, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := val.(*User)
	return user, ok
}
