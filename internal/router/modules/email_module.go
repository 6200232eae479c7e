package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/container"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

type EmailModule struct {
	Handler *handlers.EmailHandler
	JWT     *helpers.JWTManager
}

func NewEmailModule(h *handlers.EmailHandler, jwt *helpers.JWTManager) *EmailModule {
	return &EmailModule{Handler: h, JWT: jwt}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	// Admin broadcast email
	auth := rg.Group("/", adminOnly(m.JWT)...)
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserIDAndPath(), nil),
	)
	{
		auth.POST("/email/send", m.Handler.Send)
	}
}
