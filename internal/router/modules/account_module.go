package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/container"
	handlers "inkwell/internal/interface/http"
	"inkwell/internal/interface/middleware"
	"inkwell/pkg/helpers"
)

// AccountModule wires account HTTP handlers and the bearer-token gate.
// Public: POST /api/register, POST /api/login
// Protected: GET /api/me, PUT /api/profile

type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get the tightest per-IP limits.
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
