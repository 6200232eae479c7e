package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/container"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

// ContentModule exposes themes, levels and questions. Reads that never
// reveal answers are public; writes and answer-bearing reads are admin only.
type ContentModule struct {
	Handler *handlers.ContentHandler
	JWT     *helpers.JWTManager
}

func NewContentModule(h *handlers.ContentHandler, jwt *helpers.JWTManager) *ContentModule {
	return &ContentModule{Handler: h, JWT: jwt}
}

func (m *ContentModule) Register(rg *gin.RouterGroup) {
	public := rg.Group("/")
	public.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	{
		public.GET("/themes", m.Handler.ListThemes)
		public.GET("/themes/:id", m.Handler.GetTheme)
		public.GET("/themes/:id/levels", m.Handler.ThemeLevels)
		public.GET("/levels", m.Handler.ListLevels)
		public.GET("/levels/:id", m.Handler.GetLevel)
		public.GET("/levels/:id/questions", m.Handler.LevelQuiz)
		public.POST("/questions/:id/answer", m.Handler.CheckAnswer)
	}

	admin := rg.Group("/", adminOnly(m.JWT)...)
	{
		admin.POST("/themes", m.Handler.CreateTheme)
		admin.PUT("/themes/:id", m.Handler.UpdateTheme)
		admin.DELETE("/themes/:id", m.Handler.DeleteTheme)

		admin.POST("/levels", m.Handler.CreateLevel)
		admin.PUT("/levels/:id", m.Handler.UpdateLevel)
		admin.DELETE("/levels/:id", m.Handler.DeleteLevel)

		admin.GET("/questions", m.Handler.ListQuestions)
		admin.GET("/questions/:id", m.Handler.GetQuestion)
		admin.POST("/questions", m.Handler.CreateQuestion)
		admin.PUT("/questions/:id", m.Handler.UpdateQuestion)
		admin.DELETE("/questions/:id", m.Handler.DeleteQuestion)
	}
}
