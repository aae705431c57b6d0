package middleware

import (
	"net/http"
	"strings"

	"github.com/campusgrid/studentportal/internal/model"
	"github.com/campusgrid/studentportal/internal/token"
	"github.com/campusgrid/studentportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens *token.Service
}

func NewAuthMiddleware(tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// decoded identity in the context for downstream handlers. A missing token is
// 401; a malformed or expired one is 403.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			c.Abort()
			return
		}

		ident, err := m.tokens.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(response.IdentityKey, ident)
		c.Next()
	}
}

// RequireRole gates a route to one role. It assumes RequireAuth ran earlier
// in the chain.
func (m *AuthMiddleware) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := response.GetIdentity(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if ident.Role != role {
			c.JSON(http.StatusForbidden, gin.H{"error": string(role) + " access only"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header, if any.
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}
