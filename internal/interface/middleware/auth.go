package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/pkg/helpers"
	"github.com/civica-app/civica-backend/pkg/response"
)

// SessionLookup reports whether a login session is still live.
type SessionLookup interface {
	Get(ctx context.Context, uid, sid string) (*helpers.Session, bool, error)
}

// Auth validates the bearer access token and ensures its session still exists
// in Redis. It sets userID, sessionID, userEmail and role in the Gin context.
func Auth(sessions SessionLookup, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}

		_, ok, err := sessions.Get(c.Request.Context(), claims.UserID, claims.SessionID)
		if err != nil {
			response.Error[any](c, http.StatusServiceUnavailable, "session store unavailable", nil)
			c.Abort()
			return
		}
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "session expired or revoked", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Set(CtxEmailKey, claims.Email)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRoleKey) != role {
			response.Error[any](c, http.StatusForbidden, role+" role required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
