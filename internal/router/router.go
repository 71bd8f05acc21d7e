package router

import (
	"net/http"

	"github.com/caterbazar/caterbazar-console/config"
	"github.com/caterbazar/caterbazar-console/internal/app/controller"
	"github.com/caterbazar/caterbazar-console/internal/app/service"
	"github.com/caterbazar/caterbazar-console/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	authController         *controller.AuthController
	vendorController       *controller.VendorController
	registrationController *controller.RegistrationController
	eventsController       *controller.EventsController
	authMiddleware         *middleware.AuthMiddleware
	registry               *service.ConsoleRegistry
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	vendorController *controller.VendorController,
	registrationController *controller.RegistrationController,
	eventsController *controller.EventsController,
	authMiddleware *middleware.AuthMiddleware,
	registry *service.ConsoleRegistry,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		vendorController:       vendorController,
		registrationController: registrationController,
		eventsController:       eventsController,
		authMiddleware:         authMiddleware,
		registry:               registry,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"message":  "Caterbazar console is running",
			"consoles": r.registry.Len(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Password reset runs without a session.
		auth := v1.Group("/auth")
		{
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
		}

		console := v1.Group("/console")
		console.Use(r.authMiddleware.Authenticate(), middleware.ConsoleMiddleware(r.registry))
		{
			console.GET("/events", r.eventsController.Connect)

			vendors := console.Group("/vendors")
			{
				vendors.GET("", r.vendorController.Snapshot)
				vendors.POST("/open", r.vendorController.Open)
				vendors.PUT("/filter", r.vendorController.ApplyFilter)
				vendors.PUT("/page", r.vendorController.ChangePage)
				vendors.POST("/reset", r.vendorController.Reset)
			}

			registrations := console.Group("/registrations")
			{
				registrations.GET("", r.registrationController.List)
				registrations.GET("/export", r.registrationController.Export)
				registrations.GET("/:id", r.registrationController.Detail)
				registrations.PUT("/:id", r.registrationController.Edit)
				registrations.PUT("/:id/review", r.registrationController.Review)
			}
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID, "+middleware.ConsoleSessionHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", middleware.ConsoleSessionHeader+", X-Session-Expired, X-Request-ID, Content-Disposition")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
