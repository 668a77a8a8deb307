package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bytebite/internal/pkg/logger"
	"bytebite/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// OpenAPIValidator rejects requests that do not match doc with 400. Paths
// the document does not describe (health, metrics, swagger) pass through.
func OpenAPIValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if isRouteError(err, routers.ErrPathNotFound) {
					return next(ctx)
				}
				if isRouteError(err, routers.ErrMethodNotAllowed) {
					return echo.NewHTTPError(http.StatusMethodNotAllowed, "Method not allowed")
				}
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, Error{
					Code:    http.StatusBadRequest,
					Message: err.Error(),
				})
			}
			return next(ctx)
		}
	}, nil
}

// isRouteError matches both the router sentinels and RouteErrors carrying
// the same reason.
func isRouteError(err, target error) bool {
	if errors.Is(err, target) {
		return true
	}
	var re *routers.RouteError
	return errors.As(err, &re) && re.Reason == target.Error()
}

// Metrics counts requests and observes their latency per route.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			method := ctx.Request().Method
			status := strconv.Itoa(ctx.Response().Status)

			m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log logger.ILogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []logger.Field{
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Error("request", append(fields, logger.Error(v.Error))...)
			case v.Error != nil:
				log.Info("request", append(fields, logger.Error(v.Error))...)
			default:
				log.Debug("request", fields...)
			}
			return nil
		},
	})
}
