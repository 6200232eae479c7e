package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/internal/container"
	"github.com/civica-app/civica-backend/internal/domain/entity"
	handlers "github.com/civica-app/civica-backend/internal/interface/http"
	"github.com/civica-app/civica-backend/internal/interface/middleware"
	"github.com/civica-app/civica-backend/pkg/helpers"
)

type AdminModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

// adminOnly authenticates the caller and requires the ADMIN role.
func adminOnly(jwt *helpers.JWTManager) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		middleware.Auth(container.GetSessions(), jwt),
		middleware.RequireRole(string(entity.RoleAdmin)),
	}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", adminOnly(m.JWT)...)
	{
		admin.GET("/users", m.Handler.List)
		admin.GET("/users/search", m.Handler.Search)
		admin.DELETE("/users/:id", m.Handler.SoftDelete)
		admin.GET("/dashboard", m.Handler.Dashboard)
	}
}
