package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/container"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	codeConfirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	codeSendLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	a := rg.Group("/auth")
	a.POST("/register", registerLimiter, m.Handler.Register)
	a.POST("/login", loginLimiter, m.Handler.Login)
	a.POST("/refresh", refreshLimiter, m.Handler.Refresh)

	a.POST("/verify/confirm", codeConfirmLimiter, m.Handler.VerifyConfirm)
	a.POST("/verify/resend", codeSendLimiter, m.Handler.VerifyResend)
	a.POST("/reset/init", codeSendLimiter, m.Handler.ResetInit)
	a.POST("/reset/confirm", codeConfirmLimiter, m.Handler.ResetConfirm)
	a.POST("/delete/request", codeSendLimiter, m.Handler.DeleteRequest)
	a.POST("/delete/confirm", codeConfirmLimiter, m.Handler.DeleteConfirm)

	a.POST("/logout", middleware.Auth(container.GetSessions(), m.JWT), m.Handler.Logout)
}
