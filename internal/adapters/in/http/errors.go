package http

import (
	"errors"
	"net/http"

	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal server error"

// StatusFor maps a use case error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errs.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(ctx echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed",
			logger.String("route", ctx.Path()),
			logger.Error(err),
		)
		return ctx.JSON(status, Error{Code: status, Message: internalErrorMessage})
	}
	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}

// ErrorHandler renders errors that escape the handlers, such as unknown
// routes or middleware rejections, in the same body shape.
func ErrorHandler(log logger.ILogger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := internalErrorMessage

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if status < http.StatusInternalServerError {
				if m, ok := he.Message.(string); ok {
					message = m
				} else {
					message = http.StatusText(status)
				}
			}
		} else {
			status = StatusFor(err)
			if status != http.StatusInternalServerError {
				message = err.Error()
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("unhandled error", logger.String("route", ctx.Path()), logger.Error(err))
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = ctx.JSON(status, Error{Code: status, Message: message})
		}
		if writeErr != nil {
			log.Warn("failed to write error response", logger.Error(writeErr))
		}
	}
}
