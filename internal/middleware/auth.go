package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wcmap/api/internal/models"
	"wcmap/api/internal/service"
)

const (
	identityKey     = "identity"
	sessionTokenKey = "session_token"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// RequireAuth rejects requests without a resolvable session.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
			return
		}

		identity, ok, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error."})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session."})
			return
		}

		c.Set(identityKey, identity)
		c.Set(sessionTokenKey, token)

		c.Next()
	}
}

// OptionalAuth resolves an identity when a valid token is present and
// stays anonymous otherwise. It never rejects.
func OptionalAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			identity, ok, err := auth.Resolve(c.Request.Context(), token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unexpected server error."})
				return
			}
			if ok {
				c.Set(identityKey, identity)
				c.Set(sessionTokenKey, token)
			}
		}

		c.Next()
	}
}

// RequireAdmin runs after RequireAuth and checks the privilege tier.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required."})
			return
		}
		if !identity.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin authorization required."})
			return
		}

		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := val.(models.Identity)
	return identity, ok
}

func SessionTokenFrom(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
