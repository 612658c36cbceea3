package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unireg-gateway/internal/models"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// contextTokenKey stores the raw session token for sign-out.
const contextTokenKey = "sessionToken"

// SessionResolver loads the session backing a token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// SessionGuard protects routes by requiring a resolvable session. Requests
// without one are answered immediately with 401 and never reach the upstream.
func SessionGuard(sessions SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			unauthorized(c)
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ContextSessionKey, sess)
		c.Set(contextTokenKey, token)
		c.Next()
	}
}

// SessionToken returns the raw token the guard accepted for this request.
func SessionToken(c *gin.Context) string {
	if v, exists := c.Get(contextTokenKey); exists {
		if token, ok := v.(string); ok {
			return token
		}
	}
	return ""
}

func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			return cookie
		}
	}
	return ""
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}
