package api

import (
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type AppOptions struct {
	AccessLog bool
}

// NewApp wires middleware and routes around handler. JSON goes through sonic.
func NewApp(handler *Handler, options AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Vitalcheck",
		DisableStartupMessage: true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          handler.errorHandler,
	})

	app.Use(recover.New())
	if options.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Output: zap.NewStdLog(handler.logger.Named("http")).Writer(),
		}))
	}
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)

	RegisterRoutes(app, handler)
	return app
}

func (handler *Handler) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apiError(c, fiberErr.Code, "http_error", fiberErr.Message)
	}
	handler.logger.Error("unhandled request error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return handler.fail(c, fiber.StatusInternalServerError, "internal")
}
