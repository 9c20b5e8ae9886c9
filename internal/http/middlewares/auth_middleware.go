package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realtyflow/api/internal/auth"
	"github.com/realtyflow/api/internal/domain/user"
)

// SessionVerifier is the slice of auth.Sessions the middleware needs; kept
// small so tests can fake it.
type SessionVerifier interface {
	Verify(ctx *gin.Context, raw string) (user.User, error)
}

// sessionsAdapter narrows auth.Sessions (context.Context based) to the gin
// signature above.
type sessionsAdapter struct {
	sessions *auth.Sessions
}

func (a sessionsAdapter) Verify(ctx *gin.Context, raw string) (user.User, error) {
	return a.sessions.Verify(ctx.Request.Context(), raw)
}

type AuthMiddleware struct {
	verifier SessionVerifier
}

func NewAuthMiddleware(sessions *auth.Sessions) *AuthMiddleware {
	return &AuthMiddleware{verifier: sessionsAdapter{sessions: sessions}}
}

func NewAuthMiddlewareWithVerifier(v SessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: v}
}

// RequireAuth resolves the session cookie to a user and stashes identity on
// the gin context. Every failure mode is the same static 401 so nothing
// about account existence leaks.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(auth.CookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Authentication required",
				},
			})
			return
		}

		u, err := m.verifier.Verify(c, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Authentication required",
				},
			})
			return
		}

		c.Set(ctxUserIDKey, u.ID)
		c.Set(ctxUsernameKey, u.Username)
		c.Set(ctxRoleKey, u.Role)

		c.Next()
	}
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

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxRoleKey)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
