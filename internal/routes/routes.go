// Package routes defines HTTP routes for the worker API.
package routes

import (
	"net/http"

	"github.com/Janeirohurley/worker-api/docs"
	"github.com/Janeirohurley/worker-api/internal/handlers"
	"github.com/Janeirohurley/worker-api/internal/metrics"
	"github.com/Janeirohurley/worker-api/internal/middleware"
	"github.com/Janeirohurley/worker-api/internal/response"
	"github.com/Janeirohurley/worker-api/internal/service"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Options carries the collaborators Setup wires into the router.
type Options struct {
	AuthService    service.AuthService
	AuthHandler    *handlers.AuthHandler
	HealthHandler  *handlers.HealthHandler
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
	SwaggerEnabled bool
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, opts Options) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	router.Use(
		middleware.RequestLogger(opts.Logger),
		middleware.Recovery(opts.Logger),
		middleware.CORS(middleware.CORSConfig{AllowedOrigins: opts.AllowedOrigins}),
	)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/health", opts.HealthHandler.Check)

	v1 := router.Group("/api/v1/auth")
	{
		v1.POST("/register", opts.AuthHandler.Register)
		v1.POST("/login", opts.AuthHandler.Login)
		v1.GET("/me", middleware.Authenticate(opts.AuthService), opts.AuthHandler.Me)
	}

	if opts.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/api/v1"
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.MsgRouteNotFound)
	})
}
