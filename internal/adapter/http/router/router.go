package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fahrezi93/hoax-detection/internal/adapter/http/handler"
	"github.com/fahrezi93/hoax-detection/internal/adapter/http/middleware"
)

// Deps carries everything the router wires into handlers
type Deps struct {
	Logger         *zap.Logger
	Health         *handler.HealthHandler
	Predictions    *handler.PredictionHandler
	Feedback       *handler.FeedbackHandler
	AllowedOrigins []string

	// PredictLimiters guard /api/predict; APILimiters guard the other /api routes
	PredictLimiters []middleware.Limiter
	APILimiters     []middleware.Limiter
	OnRateLimited   func(route string)

	// Gatherer serves /metrics; nil means the default registry
	Gatherer prometheus.Gatherer
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(deps.AllowedOrigins...))

	// Health endpoints
	router.GET("/health", deps.Health.Health)
	router.GET("/ready", deps.Health.Ready)

	// Prometheus metrics
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	predictLimit := middleware.RateLimit("predict", logger, deps.OnRateLimited, deps.PredictLimiters...)
	apiLimit := middleware.RateLimit("api", logger, deps.OnRateLimited, deps.APILimiters...)

	api := router.Group("/api")
	{
		api.GET("/health", deps.Health.APIHealth)
		api.POST("/predict", predictLimit, deps.Predictions.Predict)
		api.POST("/batch", apiLimit, deps.Predictions.Batch)
		api.GET("/history", apiLimit, deps.Predictions.History)
		api.GET("/stats", apiLimit, deps.Predictions.Stats)
		api.POST("/feedback", apiLimit, deps.Feedback.Submit)
		api.GET("/feedback", apiLimit, deps.Feedback.List)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorEnvelope(c.GetString("request_id"), "NOT_FOUND", "Endpoint not found"))
	})

	return router
}
