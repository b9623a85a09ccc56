package http

import (
	"context"
	"log/slog"
	"net/http"

	"fooddelivery/internal/core/ports"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// BaseURL prefixes every API route.
const BaseURL = "/api/v1"

// HealthCheck reports an error when a dependency is unusable.
type HealthCheck func(ctx context.Context) error

// Register mounts the API, the swagger UI and the health check on e.
// /health answers 503 while any check fails.
func Register(
	e *echo.Echo,
	si ServerInterface,
	verifier ports.TokenVerifier,
	logger *slog.Logger,
	checks ...HealthCheck,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	doc, err := GetSwagger()
	if err != nil {
		return err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return err
	}
	if err = registerSwaggerDoc(doc); err != nil {
		return err
	}

	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(middleware.Recover(), RequestLogger(logger))

	e.GET("/health", health(checks, logger))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BaseURL, Authenticate(verifier), validator)
	RegisterHandlers(api, si, "", AdminOnly())
	return nil
}

func health(checks []HealthCheck, logger *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "Health check failed", "error", err)
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	}
}
