package middleware

import (
	"net/http"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		current, _ := role.(string)
		for _, r := range roles {
			if domain.UserRole(current) == r {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

func ArtistOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleArtist)
}

func ArtistOrAdmin() gin.HandlerFunc {
	return RequireRole(domain.RoleArtist, domain.RoleAdmin)
}
