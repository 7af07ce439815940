package router

import (
	"time"

	"github.com/gemline/backoffice/internal/infrastructure/auth"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/infrastructure/logger"
	"github.com/gemline/backoffice/internal/infrastructure/telemetry"
	"github.com/gemline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EngineConfig holds everything NewEngine needs besides the handlers
type EngineConfig struct {
	ServiceName string
	APIVersion  string
	Production  bool
	HTTP        config.HTTPConfig
	Logger      *zap.Logger

	JWT         *auth.JWTService
	Revocations auth.RevocationStore

	// Tracing wraps every request in an otelgin server span
	Tracing bool
	// Profiling labels pprof samples with the matched route
	Profiling bool
	// Prometheus, when set, is served on MetricsPath
	Prometheus  *telemetry.PrometheusMetrics
	MetricsPath string
	// OTLPMetrics pushes request metrics through the global meter
	OTLPMetrics bool
}

// NewEngine builds the gin engine: the global middleware chain, the health endpoints
// and every API route behind JWT authentication.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	// Order matters: the request ID feeds the logger, recovery wraps
	// everything after it and the span must exist before metrics read it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Prometheus: cfg.Prometheus,
		OTLP:       cfg.OTLPMetrics,
	}))
	engine.Use(middleware.SecureWithConfig(securityConfig(cfg.Production)))
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.HTTP.RateLimitEnabled && cfg.HTTP.RateLimitRequests > 0 {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}

	engine.GET("/health", h.System.Health)
	if cfg.Prometheus != nil {
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.Prometheus.Handler()))
	}
	engine.NoRoute(h.System.NoRoute)

	var opts []RouterOption
	if cfg.APIVersion != "" {
		opts = append(opts, WithAPIVersion(cfg.APIVersion))
	}
	r := NewRouter(engine, opts...)
	jwtCfg := middleware.DefaultJWTConfig(cfg.JWT)
	jwtCfg.Revocations = cfg.Revocations
	jwtCfg.Logger = log
	jwtCfg.SkipPaths = []string{r.BasePath() + "/auth/login", r.BasePath() + "/auth/refresh"}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	r.Use(middleware.SpanAttributes())
	if cfg.Profiling {
		r.Use(middleware.Profiling())
	}

	RegisterAPI(r, h, loginLimiter(cfg.HTTP))
	r.Setup()
	return engine
}

func securityConfig(production bool) middleware.SecurityConfig {
	sc := middleware.DefaultSecurityConfig()
	sc.HSTSEnabled = production
	return sc
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	cc := middleware.DefaultCORSConfig()
	cc.AllowOrigins = cfg.CORSAllowOrigins
	if len(cfg.CORSAllowMethods) > 0 {
		cc.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		cc.AllowHeaders = cfg.CORSAllowHeaders
	}
	return cc
}

// loginLimiter throttles credential guessing per client IP. It applies
// even when the general limiter is off.
func loginLimiter(cfg config.HTTPConfig) gin.HandlerFunc {
	requests, window := cfg.AuthRateLimitRequests, cfg.AuthRateLimitWindow
	if requests <= 0 {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	return middleware.RateLimit(middleware.NewRateLimiter(requests, window))
}
