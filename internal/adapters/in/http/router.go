package http

import (
	"time"

	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Doc            *openapi3.T
	Server         ServerInterface
	Health         map[string]Pinger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Logger         logger.ILogger
	RequestTimeout time.Duration
}

// NewRouter builds the echo instance with every route and middleware.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(cfg.Logger)

	validator, err := OpenAPIValidator(cfg.Doc)
	if err != nil {
		return nil, err
	}
	swagger, err := swaggerHandler(cfg.Doc)
	if err != nil {
		return nil, err
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
	}))
	e.Use(Metrics(cfg.Metrics))
	e.Use(RequestLogger(cfg.Logger))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeout(cfg.RequestTimeout))
	}
	e.Use(validator)

	RegisterHandlers(e, cfg.Server, "")

	e.GET("/health", HealthHandler(cfg.Health))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", swagger)

	return e, nil
}
