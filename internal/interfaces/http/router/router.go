// Package router 提供 HTTP 路由配置
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/handler"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/interfaces/http/middleware"
)

// Handlers 路由用到的处理器
type Handlers struct {
	Health     *handler.HealthHandler
	Photoshoot *handler.PhotoshootHandler
}

// Guards 请求保护组件，为 nil 时对应中间件放行
type Guards struct {
	RateLimiter middleware.RateLimiter
	Inflight    middleware.InflightLocker
}

// Router HTTP 路由器
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
}

// New 创建新的路由器
func New(cfg *config.Config, h Handlers, g Guards) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine: gin.New(),
		cfg:    cfg,
	}

	r.setupMiddleware()
	r.setupRoutes(h, g)

	return r
}

// Engine 返回 Gin Engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.RequestID())

	r.engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: r.cfg.Security.CORS.AllowedOrigins,
		AllowedMethods: r.cfg.Security.CORS.AllowedMethods,
		AllowedHeaders: r.cfg.Security.CORS.AllowedHeaders,
	}))

	if r.cfg.Observability.Tracing.Enabled {
		r.engine.Use(middleware.Trace(r.cfg.App.Name))
		r.engine.Use(middleware.TraceContext())
	}

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.Use(middleware.Metrics())
	}
}

func (r *Router) setupRoutes(h Handlers, g Guards) {
	r.engine.GET("/health", h.Health.Health)
	r.engine.GET("/ready", h.Health.Ready)
	r.engine.GET("/live", h.Health.Live)

	if r.cfg.Observability.Metrics.Enabled {
		r.engine.GET(r.cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	photoshoots := r.engine.Group("/photoshoots")
	photoshoots.Use(middleware.Auth(middleware.AuthConfig{
		Secret: r.cfg.Security.JWT.Secret,
		Issuer: r.cfg.Security.JWT.Issuer,
	}))
	photoshoots.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Enabled:  r.cfg.Security.RateLimit.Enabled,
		Limit:    r.cfg.Security.RateLimit.RequestsPerSecond,
		Window:   time.Second,
		Endpoint: "api",
	}, g.RateLimiter))
	{
		photoshoots.GET("", h.Photoshoot.ListPhotoshoots)
		photoshoots.GET("/:id", h.Photoshoot.GetPhotoshoot)
		photoshoots.POST("",
			middleware.RateLimit(middleware.RateLimitConfig{
				Enabled:  r.cfg.Security.RateLimit.Enabled,
				Limit:    r.cfg.Photoshoot.SubmitRateLimit,
				Window:   r.cfg.Photoshoot.SubmitRateWindow,
				Endpoint: "photoshoots.create",
			}, g.RateLimiter),
			middleware.Inflight("photoshoots.create", g.Inflight),
			h.Photoshoot.CreatePhotoshoot,
		)
	}
}
