package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/config"
	"github.com/rhq-project/rhq-coregui/internal/handler"
	"github.com/rhq-project/rhq-coregui/internal/middleware"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
)

type Router struct {
	rpcHandler    *handler.RPCHandler
	authHandler   *handler.AuthHandler
	healthHandler *handler.HealthHandler

	sessionMw *middleware.SessionMiddleware
	metrics   *metrics.Metrics
	config    *config.Config
}

func NewRouter(
	rpc *handler.RPCHandler,
	auth *handler.AuthHandler,
	health *handler.HealthHandler,

	sessionMw *middleware.SessionMiddleware,
	m *metrics.Metrics,
	config *config.Config,
) *Router {
	return &Router{
		rpcHandler:    rpc,
		authHandler:   auth,
		healthHandler: health,

		sessionMw: sessionMw,
		metrics:   m,
		config:    config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestContext())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.SecurityLogging())
	router.Use(middleware.CORS())
	if r.metrics != nil {
		router.Use(middleware.Metrics(r.metrics))
		if r.config.Metrics.Enabled {
			router.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
		}
	}

	api := router.Group("/api")
	{
		api.GET("/health", r.healthHandler.BasicHealth)
		api.GET("/health/details", r.sessionMw.RequireSession(), r.healthHandler.HealthCheck)

		v1 := api.Group("/v1")
		{
			v1.Use(middleware.RequestTimeout(r.config.App.Timeout))
			v1.Use(middleware.NewRateLimiter(r.config.RateLimit.Request,
				time.Duration(r.config.RateLimit.Duration)*time.Second).Middleware())

			r.authRoutes(v1)
			r.rpcRoutes(v1)
		}
	}

	return router
}

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/logout", r.authHandler.Logout)
		auth.GET("/session", r.authHandler.Session)
	}
}

// rpcRoutes mounts the dispatcher. Authentication happens per method inside
// the dispatcher, since some methods are public.
func (r *Router) rpcRoutes(version *gin.RouterGroup) {
	rpc := version.Group("/rpc")
	{
		rpc.GET("", r.rpcHandler.Methods)
		rpc.POST("/:service/:method", r.rpcHandler.Invoke)
	}
}
