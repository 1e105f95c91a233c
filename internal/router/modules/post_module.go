package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/container"
	handlers "inkwell/internal/interface/http"
	"inkwell/internal/interface/middleware"
	"inkwell/pkg/helpers"
)

// PostModule wires post HTTP handlers.
// Public: GET /api/posts, /api/posts/recent, /api/posts/search, /api/posts/:id
// Protected: POST /api/posts, PUT/DELETE /api/posts/:id, PUT /api/posts/:id/like

type PostModule struct {
	Handler *handlers.PostHandler
	JWT     *helpers.JWTManager
}

func NewPostModule(h *handlers.PostHandler, jwt *helpers.JWTManager) *PostModule {
	return &PostModule{Handler: h, JWT: jwt}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/posts", readLimiter, m.Handler.List)
	rg.GET("/posts/recent", readLimiter, m.Handler.Recent)
	rg.GET("/posts/search", readLimiter, m.Handler.Search)
	rg.GET("/posts/:id", readLimiter, m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/posts", m.Handler.Create)
		auth.PUT("/posts/:id", m.Handler.Update)
		auth.DELETE("/posts/:id", m.Handler.Delete)
		auth.PUT("/posts/:id/like", m.Handler.ToggleLike)
	}
}
