package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/container"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// UserModule serves the signed-in player under /api/me: profile, stats,
// lives, score and answer submission.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	me := rg.Group("/me")
	me.Use(middleware.Auth(container.GetSessions(), m.JWT))
	// Apply a softer per-IP limiter to all protected routes
	me.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		me.GET("", m.Handler.GetProfile)
		me.PUT("", m.Handler.UpdateProfile)
		me.POST("/fcm-token", m.Handler.UpdateFCMToken)
		me.POST("/password", m.Handler.ChangePassword)
		me.GET("/stats", m.Handler.Stats)

		me.GET("/lives", m.Handler.LifeStatus)
		me.POST("/lives/use", m.Handler.UseLife)
		me.POST("/lives/refresh", m.Handler.RefreshLives)
		me.POST("/score", m.Handler.AwardScore)
		me.POST("/answers/:id", m.Handler.SubmitAnswer)
	}
}
