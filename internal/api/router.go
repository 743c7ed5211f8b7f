package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/panaderia/storefront-api/internal/api/handler"
	"github.com/panaderia/storefront-api/internal/api/middleware"
	"github.com/panaderia/storefront-api/internal/core/ports"
)

// RouterConfig carries the wiring the router needs beyond the services.
type RouterConfig struct {
	GoogleMapsAPIKey string
	SecureCookies    bool
	SwaggerEnabled   bool
	RateLimitMax     int
	RateLimitWindow  time.Duration
	// ReadinessChecks pings backing dependencies for /health/ready.
	ReadinessChecks map[string]handler.Pinger
	// MetricsRegistry defaults to the process-wide Prometheus registry.
	// Tests inject their own so routers can be built repeatedly.
	MetricsRegistry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(
	auth ports.AuthService,
	catalog ports.CatalogService,
	orders ports.OrderService,
	cfg RouterConfig,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if cfg.MetricsRegistry != nil {
		registerer = cfg.MetricsRegistry
		gatherer = cfg.MetricsRegistry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "storefront",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(auth, cfg.SecureCookies)
	productHandler := handler.NewProductHandler(catalog)
	orderHandler := handler.NewOrderHandler(orders)
	configHandler := handler.NewConfigHandler(cfg.GoogleMapsAPIKey)
	summaryHandler := handler.NewSummaryHandler(orders)

	// --- Health probes and metrics (outside the rate limit) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(cfg.ReadinessChecks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	if cfg.SwaggerEnabled {
		e.GET("/swagger/*", echoswagger.WrapHandler)
	}

	// --- API routes ---
	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	apiGroup := e.Group("/api", limiter.Middleware(), middleware.Session(auth))

	// Public
	apiGroup.GET("/config", configHandler.Get)
	apiGroup.GET("/products", productHandler.List)
	apiGroup.POST("/orders", orderHandler.Create)
	apiGroup.POST("/register", authHandler.Register)
	apiGroup.POST("/login", authHandler.Login)

	// Session required
	sessionGroup := apiGroup.Group("", middleware.RequireAuth())
	sessionGroup.POST("/logout", authHandler.Logout)
	sessionGroup.GET("/user", authHandler.Me)
	sessionGroup.POST("/user/password", authHandler.ChangePassword)

	// Admin only
	adminGroup := apiGroup.Group("", middleware.RequireAdmin())
	adminGroup.POST("/products", productHandler.Create)
	adminGroup.PUT("/products/:id", productHandler.Update)
	adminGroup.DELETE("/products/:id", productHandler.Delete)
	adminGroup.GET("/admin/products", productHandler.ListAll)
	adminGroup.GET("/orders", orderHandler.List)
	adminGroup.GET("/orders/:id", orderHandler.Get)
	adminGroup.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	adminGroup.GET("/admin/summary", summaryHandler.Get)

	return e
}
