package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes on a RouterGroup.
// Modules read shared infrastructure (Redis, session store) from the container.
type Module interface {
	Register(rg *gin.RouterGroup)
}
