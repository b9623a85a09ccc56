package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const identityKey = "identity"

// Authenticate verifies the bearer token and stores the caller's identity.
func Authenticate(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				return ports.ErrUnauthorized
			}

			identity, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				return err
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// AdminOnly lets superusers through.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := identityOf(c)
			if err != nil {
				return err
			}
			if !identity.IsSuperuser {
				return errs.NewForbiddenError("superuser access is required")
			}
			return next(c)
		}
	}
}

func identityOf(c echo.Context) (ports.Identity, error) {
	identity, ok := c.Get(identityKey).(ports.Identity)
	if !ok {
		return ports.Identity{}, ports.ErrUnauthorized
	}
	return identity, nil
}

// RequestLogger writes one access log line per request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.WarnContext(c.Request().Context(), "Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	})
}

// ErrorHandler maps errors to status codes and writes them as Error bodies.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusOf(err)
		if code == http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "Unhandled error",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, Error{Code: code, Message: message})
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "Failed to write error response", "error", writeErr)
		}
	}
}

func statusOf(err error) (int, string) {
	var (
		httpErr      *echo.HTTPError
		invalidState *errs.InvalidStateError
		conflict     *errs.ConflictError
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, http.StatusText(httpErr.Code)
	case errors.Is(err, ports.ErrUnauthorized):
		return http.StatusUnauthorized, ports.ErrUnauthorized.Error()
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &invalidState):
		return http.StatusBadRequest, invalidState.Reason
	case errors.As(err, &conflict):
		return http.StatusBadRequest, conflict.Reason
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}
