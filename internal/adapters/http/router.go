package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/inspirehub/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inspirehub/internal/adapters/http/middleware"
	"github.com/jsamuelsen/inspirehub/internal/platform/telemetry"
)

// RouterConfig collects what SetupRouter mounts. Nil handlers leave their
// routes out, which tests use to mount a subset.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	// Timeout bounds /api/v1 requests. Zero disables it.
	Timeout time.Duration

	// CurrentUser reports the signed-in username for log enrichment and
	// to guard the personalization routes.
	CurrentUser middleware.CurrentUser

	Health          *handlers.HealthHandler
	Catalog         *handlers.CatalogHandler
	Session         *handlers.SessionHandler
	Personalization *handlers.PersonalizationHandler
	Motivation      *handlers.MotivationHandler
}

// SetupRouter installs the middleware chain and routes. Order matters:
// recovery first, then ids so every later log line carries them, then
// tracing, session enrichment, and request logging. The timeout applies
// to /api/v1 only so probes are never cut short.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	current := cfg.CurrentUser
	if current == nil {
		current = func() (string, bool) { return "", false }
	}

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(
		middleware.SessionUser(current),
		middleware.Logging(cfg.Logger),
	)

	if cfg.Health != nil {
		cfg.Health.Register(engine)
	}

	api := engine.Group("/api/v1", middleware.Timeout(cfg.Timeout))

	if h := cfg.Catalog; h != nil {
		api.GET("/quotes", h.List)
		api.GET("/quotes/today", h.Today)
		api.GET("/categories", h.Categories)
	}

	if h := cfg.Session; h != nil {
		api.GET("/session", h.Current)
		api.DELETE("/session", h.Logout)
		api.POST("/session/login", h.Login)
		api.POST("/session/register", h.Register)
	}

	if h := cfg.Personalization; h != nil {
		me := api.Group("", middleware.RequireUser(current))
		me.GET("/favorites", h.Favorites)
		me.POST("/favorites/:quoteId/toggle", h.ToggleFavorite)
		me.GET("/collections", h.Collections)
		me.POST("/collections", h.CreateCollection)
		me.POST("/collections/:id/quotes", h.AddToCollection)
	}

	if h := cfg.Motivation; h != nil {
		api.POST("/motivation", h.Generate)
		api.GET("/motivation/status", h.Status)
	}
}
