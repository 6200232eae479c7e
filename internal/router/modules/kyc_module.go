package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/container"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

type KYCModule struct {
	Handler *handlers.KYCHandler
	JWT     *helpers.JWTManager
}

func NewKYCModule(h *handlers.KYCHandler, jwt *helpers.JWTManager) *KYCModule {
	return &KYCModule{Handler: h, JWT: jwt}
}

func (m *KYCModule) Register(rg *gin.RouterGroup) {
	auth := middleware.Auth(container.GetSessions(), m.JWT)
	rdb := container.GetRedis()

	// Recognition calls are paid; keep them scarce per user.
	rg.POST("/kyc/submit", auth, middleware.RateLimit(rdb, 10, time.Hour, middleware.KeyByUserIDAndPath(), nil), m.Handler.Submit)
	rg.POST("/kyc/verify", auth, middleware.RateLimit(rdb, 20, time.Hour, middleware.KeyByUserIDAndPath(), nil), m.Handler.Verify)
	rg.POST("/kyc/selfie", auth, middleware.RateLimit(rdb, 10, time.Hour, middleware.KeyByUserIDAndPath(), nil), m.Handler.Selfie)
}
