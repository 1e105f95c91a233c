package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/container"
	handlers "inkwell/internal/interface/http"
	"inkwell/internal/interface/middleware"
	"inkwell/pkg/helpers"
)

// CommentModule wires comment HTTP handlers.
// Public: GET /api/posts/:id/comments
// Protected: POST /api/comments, DELETE /api/comments/:id

type CommentModule struct {
	Handler *handlers.CommentHandler
	JWT     *helpers.JWTManager
}

func NewCommentModule(h *handlers.CommentHandler, jwt *helpers.JWTManager) *CommentModule {
	return &CommentModule{Handler: h, JWT: jwt}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/posts/:id/comments", readLimiter, m.Handler.ListByPost)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/comments", m.Handler.Create)
		auth.DELETE("/comments/:id", m.Handler.Delete)
	}
}
