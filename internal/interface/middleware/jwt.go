package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserIDKey    = "userID"
	CtxSessionIDKey = "sessionID"
	CtxEmailKey     = "userEmail"
	CtxRoleKey      = "role"
)

// BearerToken reads the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func UserID(c *gin.Context) string    { return c.GetString(CtxUserIDKey) }
func SessionID(c *gin.Context) string { return c.GetString(CtxSessionIDKey) }
