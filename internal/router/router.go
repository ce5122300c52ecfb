package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicpos/record-api/internal/handler"
	"github.com/clinicpos/record-api/internal/middleware"
	"github.com/clinicpos/record-api/pkg/logger"
	"github.com/clinicpos/record-api/pkg/metrics"
)

// Handler registers routes on a protected group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

// PublicHandler additionally registers routes that run without
// authentication.
type PublicHandler interface {
	RegisterPublicRoutes(*gin.RouterGroup)
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	authnH       PublicHandler
	patientH     Handler
	appointmentH Handler
	branchH      Handler
	staffH       Handler
	metrics      *metrics.Metrics
}

func New(
	auth *middleware.AuthMiddleware,
	authnH PublicHandler,
	patientH Handler,
	appointmentH Handler,
	branchH Handler,
	staffH Handler,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		authnH:       authnH,
		patientH:     patientH,
		appointmentH: appointmentH,
		branchH:      branchH,
		staffH:       staffH,
		metrics:      m,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		r.metricsMiddleware(),
		middleware.Timeout(cfg.RequestTimeout),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", handler.Health())
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	r.authnH.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authnH.RegisterRoutes(protected)
	r.patientH.RegisterRoutes(protected, r.auth)
	r.appointmentH.RegisterRoutes(protected, r.auth)
	r.branchH.RegisterRoutes(protected, r.auth)
	r.staffH.RegisterRoutes(protected, r.auth)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
