package handlers

import (
	"net/http"
	"time"

	"office_climate/internal/logger"
	"office_climate/internal/metrics"
	"office_climate/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services  *service.Service
	log       *logger.Logger
	metrics   *metrics.Metrics
	staticDir string
	now       func() time.Time
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMetrics enables request metrics and the /metrics endpoint.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithStaticDir serves the browser UI from dir under /ui/.
func WithStaticDir(dir string) Option {
	return func(h *Handler) { h.staticDir = dir }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.corsMiddleware)
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// Status stream over WebSocket on the same port
	router.GET("/ws", h.wsConnect)

	if h.staticDir != "" {
		router.Static("/ui", h.staticDir)
		router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/ui/") })
	}

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		h.registerTemperatureRoutes(api)
		h.registerSchemaRoutes(api)
		h.registerPowerRoutes(api)
		h.registerWeatherRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerTemperatureRoutes(api *gin.RouterGroup) {
	temp := api.Group("/temperature")
	{
		temp.GET("/target", h.getTarget)
		// Body example: {"targetTemperature":21.5}
		temp.POST("/target", h.setTarget)
		temp.GET("/status", h.getStatus)
		temp.POST("/current", h.postCurrent)
		// For sensors that can only GET: /api/temperature/current?temperature=21.3
		temp.GET("/current", h.getCurrent)
		temp.GET("/history", h.getHistory)
	}
}

func (h *Handler) registerSchemaRoutes(api *gin.RouterGroup) {
	schemas := api.Group("/schemas")
	{
		schemas.GET("", h.listSchemas)
		schemas.POST("", h.createSchema)
		schemas.GET("/:id", h.getSchema)
		schemas.PUT("/:id", h.updateSchema)
		schemas.DELETE("/:id", h.deleteSchema)
	}
	api.GET("/schemas-active", h.getActiveSchema)
	api.POST("/schemas-active", h.setActiveSchema)
}

func (h *Handler) registerPowerRoutes(api *gin.RouterGroup) {
	api.GET("/power-socket/recommendation", h.getRecommendation)
}

func (h *Handler) registerWeatherRoutes(api *gin.RouterGroup) {
	weather := api.Group("/weather")
	{
		weather.GET("/settings", h.getWeatherSettings)
		weather.PUT("/settings", h.putWeatherSettings)
		weather.GET("/forecast", h.getForecast)
		weather.POST("/refresh", h.refreshForecast)
		weather.GET("/history", h.getWeatherHistory)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}
