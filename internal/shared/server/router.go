package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/services/health"
	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/metrics"
	"profile-backend/internal/shared/server/middleware"
	"profile-backend/internal/shared/server/respond"
)

// RouteRegistrar is implemented by feature handlers.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the configuration and handlers mounted under /api/v1.
type RouterDeps struct {
	Config   config.Config
	Health   *health.Service
	Handlers []RouteRegistrar
	// Limiter is shared across routers built from the same process; nil
	// creates a fresh one.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	rl := deps.Config.RateLimit
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.DefaultRateLimitGroup: {Rate: rl.DefaultRPS, Burst: rl.DefaultBurst},
				middleware.ExportRateLimitGroup:  {Rate: rl.ExportRPS, Burst: rl.ExportBurst},
			},
			GroupFor: middleware.ExportGroupFor,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
