// Package middleware provides Gin HTTP middleware for authentication,
// security headers, request IDs, and Prometheus metrics.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Recovery -> RequestID -> Metrics -> SecurityHeaders -> Auth -> Handler
//
// Security headers run before auth so they appear on all responses including
// 401s. Auth populates the caller's identity; handlers read the actor email
// from the context to stamp created_by/updated_by on writes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/data-fusion-hub/data-fusion-service/internal/auth"
	"github.com/data-fusion-hub/data-fusion-service/internal/db/repositories"
)

// Context keys set by RequireAuth.
const (
	UserKey   = "user"
	UserIDKey = "user_id"
	ActorKey  = "actor"
)

// RequireAuth validates the Bearer token on every request and loads the
// authenticated user. All failures produce a uniform 401 so callers cannot
// distinguish a bad token from a deleted account.
func RequireAuth(userRepo *repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Not authenticated",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Not authenticated",
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Not authenticated",
			})
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Could not validate credentials",
			})
			return
		}

		user, err := userRepo.GetByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"detail": "Failed to load user",
			})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Could not validate credentials",
			})
			return
		}

		c.Set(UserKey, user)
		c.Set(UserIDKey, user.ID)
		c.Set(ActorKey, user.Email)

		c.Next()
	}
}

// Actor returns the authenticated caller's email for provenance stamping.
// Empty outside RequireAuth-protected routes.
func Actor(c *gin.Context) string {
	return c.GetString(ActorKey)
}
