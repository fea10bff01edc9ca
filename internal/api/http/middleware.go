package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/secops-service/internal/api/dto"
	"github.com/spec-kit/secops-service/internal/observability"
	apperrors "github.com/spec-kit/secops-service/pkg/util"
)

// MiddlewareConfig configures the global middleware chain.
type MiddlewareConfig struct {
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Panics     *observability.PanicPolicy
	Timeout    time.Duration
	Production bool
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger wraps the error middleware so it records rendered statuses.
func RegisterMiddlewares(app *fiber.App, cfg MiddlewareConfig) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	app.Use(requestid.New(requestid.Config{
		Header:    observability.RequestIDHeader,
		Generator: uuid.NewString,
	}))
	app.Use(observability.RequestLogger(cfg.Logger, cfg.Metrics))
	if cfg.Timeout > 0 {
		app.Use(requestTimeoutMiddleware(cfg.Timeout))
	}
	app.Use(errorHandlingMiddleware(cfg))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// toDomainError also covers errors raised by fiber itself, such as unknown routes.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(apperrors.CodeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func errorHandlingMiddleware(cfg MiddlewareConfig) fiber.Handler {
	logger := cfg.Logger
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				cfg.Panics.Handle("http "+c.Method()+" "+c.Path(), r)
				err = apperrors.NewInternalError(errors.New("panic during request"))
			}
			if err != nil {
				domainErr := toDomainError(err)
				cfg.Metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

				message := domainErr.Message
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("request_id", c.GetRespHeader(observability.RequestIDHeader)),
						zap.Error(domainErr))
					if !cfg.Production && domainErr.Err != nil {
						message = domainErr.Error()
					}
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(dto.ErrorResponse{
					Message: message,
					Code:    domainErr.Code,
					Details: domainErr.Details,
				})
				err = nil
			}
		}()
		return c.Next()
	}
}
