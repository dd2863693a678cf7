package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/agri-advisor/internal/domain/farmer"
	"github.com/yanqian/agri-advisor/internal/infra/config"
	"github.com/yanqian/agri-advisor/internal/infra/ratelimit"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, limiter ratelimit.Limiter, farmerSvc farmer.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
	)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Error: "Route not found", Code: "not_found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, envelope{Success: false, Error: "Method not allowed", Code: "method_not_allowed"})
	})

	router.GET("/healthz", handler.Health)

	if !cfg.HTTP.RateLimit.Enabled {
		limiter = nil
	}
	middlewares := []gin.HandlerFunc{
		rateLimitMiddleware(limiter, logger),
		optionalSessionMiddleware(farmerSvc),
	}
	registerRoutes(router.Group("", middlewares...), handler)
	registerRoutes(router.Group("/api/v1", middlewares...), handler)

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func registerRoutes(group *gin.RouterGroup, handler *Handler) {
	group.POST("/advisory/generate", handler.GenerateAdvisory)
	group.POST("/advisory/calendar/export", handler.ExportCalendar)
	group.GET("/alerts/weather", handler.WeatherAlerts)
	group.GET("/alerts/market", handler.MarketAlerts)
	group.POST("/farmer/register", handler.RegisterFarmer)
	group.POST("/farmer/input", handler.SubmitFarmerInput)
	group.GET("/farmer/history", handler.FarmerHistory)
	group.POST("/soil/test", handler.SoilTest)
	group.POST("/pest/detect", handler.DetectPest)
}
