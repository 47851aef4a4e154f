package routes

import (
	"net/http"

	"agri-transport-monitor/internal/config"
	"agri-transport-monitor/internal/delivery/http/handler"
	"agri-transport-monitor/internal/infrastructure/database/postgres"
	"agri-transport-monitor/internal/logger"
	"agri-transport-monitor/internal/middleware"
	"agri-transport-monitor/internal/usecase/alert"
	"agri-transport-monitor/internal/usecase/device"
	"agri-transport-monitor/internal/usecase/geofence"
	"agri-transport-monitor/internal/usecase/order"
	"agri-transport-monitor/internal/usecase/quality"
	"agri-transport-monitor/internal/usecase/telemetry"

	"github.com/gin-gonic/gin"
)

// Services are the assembled use cases the HTTP layer exposes. They are
// built in main because the ingestion processor and the engines they share
// have their own lifecycle.
type Services struct {
	Device    *device.Service
	Telemetry *telemetry.Service
	Geofence  *geofence.Service
	Alert     *alert.Service
	Order     *order.Service
	Quality   *quality.Service
}

func SetupRoutes(cfg *config.Config, db *postgres.DB, services *Services) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware in order: request ID, logging, security headers, CORS,
	// request size limit, general rate limit.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(10 << 20))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	deviceHandler := handler.NewDeviceHandler(services.Device)
	telemetryHandler := handler.NewTelemetryHandler(services.Telemetry)
	geofenceHandler := handler.NewGeofenceHandler(services.Geofence)
	alertHandler := handler.NewAlertHandler(services.Alert)
	orderHandler := handler.NewOrderHandler(services.Order)
	qualityHandler := handler.NewQualityHandler(services.Quality)

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			deviceHandler.RegisterRoutes(protected)
			telemetryHandler.RegisterRoutes(protected)
			geofenceHandler.RegisterRoutes(protected)
			orderHandler.RegisterRoutes(protected)
			qualityHandler.RegisterRoutes(protected)

			// Trader routes
			trader := protected.Group("")
			trader.Use(middleware.TraderOnly())
			{
				orderHandler.RegisterTraderRoutes(trader)
			}

			// Farmer routes
			farmer := protected.Group("")
			farmer.Use(middleware.FarmerOnly())
			{
				orderHandler.RegisterFarmerRoutes(farmer)
			}

			// Driver routes
			driver := protected.Group("")
			driver.Use(middleware.DriverOnly())
			{
				orderHandler.RegisterDriverRoutes(driver)
			}

			// Alert handling is reserved for authorities and operators.
			authority := protected.Group("")
			authority.Use(middleware.RoleMiddleware("government", "admin"))
			{
				alertHandler.RegisterRoutes(authority)
				geofenceHandler.RegisterGovernmentRoutes(authority)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				deviceHandler.RegisterAdminRoutes(admin)
				telemetryHandler.RegisterAdminRoutes(admin)
				qualityHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
