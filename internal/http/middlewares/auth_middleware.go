package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/olamidek/coursehub/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

const (
	ctxUserIDKey  = "auth.userID"
	ctxEmailKey   = "auth.email"
	ctxIsAdminKey = "auth.isAdmin"
)

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing or invalid Authorization header",
				},
			})
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Invalid or expired access token",
				},
			})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present but lets the
// request through either way. Catalog reads personalize when they can.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if ok {
			if claims, err := m.jwt.VerifyAccessToken(raw); err == nil {
				setIdentity(c, claims)
			}
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))

	return raw, raw != ""
}

func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(ctxUserIDKey, claims.UserID)
	c.Set(ctxEmailKey, claims.Email)
	c.Set(ctxIsAdminKey, claims.IsAdmin)
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

func IsAdminFromContext(c *gin.Context) bool {
	v, ok := c.Get(ctxIsAdminKey)
	if !ok {
		return false
	}
	isAdmin, ok := v.(bool)
	return ok && isAdmin
}
